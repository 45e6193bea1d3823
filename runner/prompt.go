package runner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hairizuan-noorazman/uxagent/persona"
)

// QueryFlag marks agent traffic on the system under test.
const QueryFlag = "uxagent=1"

// BuildStartURL returns the URL the agent opens first. A missing leading
// slash on startPath is added; nothing is escaped, so callers must pass
// URL-safe values.
func BuildStartURL(baseDomain, startPath, personaID, variant, runID string) string {
	if !strings.HasPrefix(startPath, "/") {
		startPath = "/" + startPath
	}
	return fmt.Sprintf("https://%s%s?%s&persona=%s&variant=%s&run=%s",
		baseDomain, startPath, QueryFlag, personaID, variant, runID)
}

// BuildPrompt returns the natural-language task handed to the agent.
func BuildPrompt(p *persona.Persona, startURL string) (string, error) {
	profile := p.Profile
	if profile == nil {
		profile = map[string]interface{}{}
	}
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("failed to marshal persona profile: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a shopper persona: %s (%s). ", p.Name, p.ID)
	fmt.Fprintf(&b, "Style: %s. Profile: %s. ", p.StyleOrDefault(), profileJSON)
	fmt.Fprintf(&b, "Start at %s and accomplish: %s. ", startURL, strings.Join(p.Goals, "; "))
	b.WriteString("If a cookie or consent banner appears, accept it. Use site navigation or search. ")
	b.WriteString("Once a product is added to the cart, stop.")

	return b.String(), nil
}
