package runner

import (
	"os"
	"sort"
	"strings"
)

// Environment variable names read by the runner.
const (
	EnvOpenAIAPIKey         = "OPENAI_API_KEY"
	EnvBrowserbaseAPIKey    = "BROWSERBASE_API_KEY"
	EnvBrowserbaseProjectID = "BROWSERBASE_PROJECT_ID"
	EnvShopBaseDomain       = "SHOP_BASE_DOMAIN"
	EnvShopStartPath        = "SHOP_START_PATH"
)

// RequiredKeys must be present and non-empty before a run is launched.
var RequiredKeys = []string{
	EnvOpenAIAPIKey,
	EnvBrowserbaseAPIKey,
	EnvBrowserbaseProjectID,
	EnvShopBaseDomain,
}

// Environment is a read-only snapshot of process environment variables. The
// snapshot is taken once and handed to child processes as-is.
type Environment map[string]string

// EnvironmentFromOS snapshots the current process environment.
func EnvironmentFromOS() Environment {
	return ParseEnvironment(os.Environ())
}

// ParseEnvironment builds a snapshot from KEY=VALUE pairs. Later entries win.
func ParseEnvironment(pairs []string) Environment {
	env := make(Environment, len(pairs))
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = v
	}
	return env
}

// Get returns the value for key, or "" when unset.
func (e Environment) Get(key string) string {
	return e[key]
}

// Slice returns the snapshot as sorted KEY=VALUE pairs, suitable for exec.Cmd.Env.
func (e Environment) Slice() []string {
	out := make([]string, 0, len(e))
	for k, v := range e {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// RequireEnv checks that every key is set to a non-empty value. All missing
// keys are reported together in a single *MissingEnvironmentError.
func RequireEnv(env Environment, keys ...string) error {
	var missing []string
	for _, k := range keys {
		if env.Get(k) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return &MissingEnvironmentError{Keys: missing}
	}
	return nil
}
