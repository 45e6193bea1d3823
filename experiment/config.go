package experiment

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNotFound is returned when the experiment file does not exist.
	ErrConfigNotFound = errors.New("experiment config not found")

	// ErrInvalidConfig is returned when the experiment file has unusable values.
	ErrInvalidConfig = errors.New("invalid experiment config")
)

// Keys of the experiment document.
const (
	KeyStartPath     = "start_url_path"
	KeyVariants      = "variants"
	KeyPersonas      = "personas"
	KeyRunsPer       = "runs_per_persona_per_variant"
	KeyDelaySeconds  = "delay_seconds_between_starts"
	KeyDebugShowUI   = "debug_show_screens"
	DefaultStartPath = "/"
	DefaultRunsPer   = 1
	DefaultDelay     = 5 * time.Second
)

// DefaultVariants is used when the document lists no variants.
var DefaultVariants = []string{"A", "B"}

// Config describes one experiment batch. It is not modified after Load.
type Config struct {
	StartPath          string
	Variants           []string
	Personas           []string
	RunsPerCombination int
	InterRunDelay      time.Duration
	ShowDebugUI        bool
}

// Load reads the experiment document at path and applies defaults.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if ext := configType(path); ext != "" {
		v.SetConfigType(ext)
	}

	v.SetDefault(KeyStartPath, DefaultStartPath)
	v.SetDefault(KeyRunsPer, DefaultRunsPer)
	v.SetDefault(KeyDelaySeconds, int(DefaultDelay/time.Second))
	v.SetDefault(KeyDebugShowUI, false)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := &Config{
		StartPath:          v.GetString(KeyStartPath),
		Variants:           v.GetStringSlice(KeyVariants),
		Personas:           v.GetStringSlice(KeyPersonas),
		RunsPerCombination: v.GetInt(KeyRunsPer),
		InterRunDelay:      time.Duration(v.GetInt(KeyDelaySeconds)) * time.Second,
		ShowDebugUI:        v.GetBool(KeyDebugShowUI),
	}
	if v.InConfig(KeyRunsPer) && cfg.RunsPerCombination < 1 {
		return nil, fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, KeyRunsPer, cfg.RunsPerCombination)
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills empty fields. Variants fall back to DefaultVariants
// when absent or empty; a zero run count becomes DefaultRunsPer.
func (c *Config) ApplyDefaults() {
	if c.StartPath == "" {
		c.StartPath = DefaultStartPath
	}
	if len(c.Variants) == 0 {
		c.Variants = append([]string(nil), DefaultVariants...)
	}
	if c.Personas == nil {
		c.Personas = []string{}
	}
	if c.RunsPerCombination == 0 {
		c.RunsPerCombination = DefaultRunsPer
	}
}

// Validate checks value ranges. An empty persona list is valid.
func (c *Config) Validate() error {
	if c.RunsPerCombination < 1 {
		return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, KeyRunsPer, c.RunsPerCombination)
	}
	if c.InterRunDelay < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, KeyDelaySeconds)
	}
	for i, variant := range c.Variants {
		if variant == "" {
			return fmt.Errorf("%w: variant %d is empty", ErrInvalidConfig, i)
		}
	}
	for i, p := range c.Personas {
		if p == "" {
			return fmt.Errorf("%w: persona %d is empty", ErrInvalidConfig, i)
		}
	}
	return nil
}

// TotalRuns is the number of runs a batch over c would launch.
func (c *Config) TotalRuns() int {
	return len(c.Personas) * len(c.Variants) * c.RunsPerCombination
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Variants = append([]string(nil), c.Variants...)
	out.Personas = append([]string(nil), c.Personas...)
	return &out
}

func configType(path string) string {
	switch ext := strings.TrimPrefix(filepath.Ext(path), "."); ext {
	case "", "yml", "yaml":
		return "yaml"
	case "json", "toml":
		return ext
	default:
		return ""
	}
}
