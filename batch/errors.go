package batch

import "fmt"

// ConfigurationError wraps a missing or unusable configuration resource.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// PersonaNotFoundError names a persona reference with no backing document.
type PersonaNotFoundError struct {
	Persona  string
	Location string
}

func (e *PersonaNotFoundError) Error() string {
	loc := e.Location
	if loc == "" {
		loc = e.Persona
	}
	return fmt.Sprintf("Persona not found: %s", loc)
}

// ChildRunFailedError reports the first run in a batch that exited non-zero.
type ChildRunFailedError struct {
	Persona    string
	Variant    string
	Repetition int
	RunID      string
	ExitCode   int
}

func (e *ChildRunFailedError) Error() string {
	return fmt.Sprintf("Child run failed persona=%s variant=%s run=%s code=%d", e.Persona, e.Variant, e.RunID, e.ExitCode)
}
