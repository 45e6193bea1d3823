package persona

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// DefaultStyle is used when a persona document has no style.
const DefaultStyle = "neutral"

var (
	// ErrInvalidPersona is returned when a persona document cannot be used.
	ErrInvalidPersona = errors.New("invalid persona")

	// ErrPersonaNotFound is returned when no document exists for a persona reference.
	ErrPersonaNotFound = errors.New("persona not found")
)

// Persona is a synthetic shopper profile used to script the agent.
type Persona struct {
	ID      string                 `json:"id"`
	Name    string                 `json:"name"`
	Goals   []string               `json:"goals"`
	Style   string                 `json:"style,omitempty"`
	Profile map[string]interface{} `json:"profile,omitempty"`
}

// StyleOrDefault returns the persona style, or DefaultStyle when unset.
func (p *Persona) StyleOrDefault() string {
	if p.Style == "" {
		return DefaultStyle
	}
	return p.Style
}

// Validate checks the fields needed to build a run.
func (p *Persona) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidPersona)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPersona)
	}
	return nil
}

// Decode reads a single persona document.
func Decode(r io.Reader) (*Persona, error) {
	var p Persona
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPersona, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
