package uuidutil

import (
	"strings"

	"github.com/google/uuid"
)

// ShortIDLength is the number of hex characters kept by ShortID.
const ShortIDLength = 8

// ShortID returns the first ShortIDLength lowercase hex characters of a fresh
// random UUID. Collisions within a batch are possible but negligible.
func ShortID() string {
	return Shorten(uuid.New())
}

// Shorten truncates id to its first ShortIDLength hex characters.
func Shorten(id uuid.UUID) string {
	return strings.ToLower(id.String()[:ShortIDLength])
}

// IsShortID reports whether s looks like a value produced by ShortID.
func IsShortID(s string) bool {
	if len(s) != ShortIDLength {
		return false
	}
	for _, c := range s {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}
