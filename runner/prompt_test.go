package runner

import (
	"strings"
	"testing"

	"github.com/hairizuan-noorazman/uxagent/persona"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildStartURL(t *testing.T) {
	want := "https://shop.example.com/checkout?uxagent=1&persona=alice&variant=A&run=deadbeef"

	assert.Equal(t, want, BuildStartURL("shop.example.com", "checkout", "alice", "A", "deadbeef"))
	assert.Equal(t, want, BuildStartURL("shop.example.com", "/checkout", "alice", "A", "deadbeef"))
	assert.Equal(t, "https://shop.example.com/?uxagent=1&persona=bob&variant=B&run=0badf00d",
		BuildStartURL("shop.example.com", "", "bob", "B", "0badf00d"))
}

func TestBuildPrompt(t *testing.T) {
	startURL := "https://shop.example.com/?uxagent=1&persona=alice&variant=A&run=deadbeef"

	tests := []struct {
		name    string
		persona *persona.Persona
		check   func(t *testing.T, prompt string)
	}{
		{
			name: "goals joined and identity embedded",
			persona: &persona.Persona{
				ID:    "alice",
				Name:  "Alice Shopper",
				Goals: []string{"find a laptop", "add to cart"},
				Style: "decisive",
				Profile: map[string]interface{}{
					"budget": 1200,
					"device": "desktop",
				},
			},
			check: func(t *testing.T, prompt string) {
				assert.Contains(t, prompt, "find a laptop; add to cart")
				assert.Contains(t, prompt, "alice")
				assert.Contains(t, prompt, "Alice Shopper")
				assert.Contains(t, prompt, "Style: decisive.")
				assert.Contains(t, prompt, `{"budget":1200,"device":"desktop"}`)
				assert.Contains(t, prompt, startURL)
			},
		},
		{
			name:    "defaults for style and profile",
			persona: &persona.Persona{ID: "bob", Name: "Bob"},
			check: func(t *testing.T, prompt string) {
				assert.Contains(t, prompt, "Style: neutral.")
				assert.Contains(t, prompt, "Profile: {}.")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt, err := BuildPrompt(tt.persona, startURL)
			require.NoError(t, err)
			tt.check(t, prompt)

			lower := strings.ToLower(prompt)
			assert.Contains(t, lower, "accept it")
			assert.Contains(t, lower, "added to the cart, stop")
		})
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	p := &persona.Persona{
		ID:      "carol",
		Name:    "Carol",
		Profile: map[string]interface{}{"z": 1, "a": map[string]interface{}{"y": true, "b": "x"}},
	}
	first, err := BuildPrompt(p, "https://x/")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := BuildPrompt(p, "https://x/")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestBuildPrompt_UnserializableProfile(t *testing.T) {
	p := &persona.Persona{ID: "x", Name: "X", Profile: map[string]interface{}{"fn": func() {}}}
	_, err := BuildPrompt(p, "https://x/")
	assert.ErrorContains(t, err, "failed to marshal persona profile")
}
