package runner

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRequest is returned when a Request lacks a persona or variant.
var ErrInvalidRequest = errors.New("invalid run request")

// MissingEnvironmentError lists every required variable that was unset.
type MissingEnvironmentError struct {
	Keys []string
}

func (e *MissingEnvironmentError) Error() string {
	return fmt.Sprintf("Missing env vars: %s", strings.Join(e.Keys, ", "))
}

// VendorEntrypointMissingError means the external agent could not be found.
// It is distinct from the agent running and exiting non-zero.
type VendorEntrypointMissingError struct {
	Path string
}

func (e *VendorEntrypointMissingError) Error() string {
	return fmt.Sprintf("Vendor CLI not found at %s. Did you init the submodule?", e.Path)
}
