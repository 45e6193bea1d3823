package persona

import (
	"context"
	"errors"
	"fmt"

	"github.com/hairizuan-noorazman/uxagent/storage"
)

// Store resolves persona references to persona documents.
type Store interface {
	// Exists reports whether a document backs ref.
	Exists(ctx context.Context, ref string) (bool, error)

	// Load reads and validates the persona behind ref.
	Load(ctx context.Context, ref string) (*Persona, error)

	// Location describes where ref resolves to.
	Location(ref string) string
}

// DocumentStore is a Store backed by a storage.Reader.
type DocumentStore struct {
	reader storage.Reader
}

// NewDocumentStore creates a persona store over reader.
func NewDocumentStore(reader storage.Reader) *DocumentStore {
	return &DocumentStore{reader: reader}
}

// Exists reports whether a persona document is present at ref.
func (s *DocumentStore) Exists(ctx context.Context, ref string) (bool, error) {
	return s.reader.Exists(ctx, ref)
}

// Load reads, decodes and validates the persona document at ref.
func (s *DocumentStore) Load(ctx context.Context, ref string) (*Persona, error) {
	rc, err := s.reader.Open(ctx, ref)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPersonaNotFound, s.reader.Location(ref))
		}
		return nil, fmt.Errorf("failed to read persona %s: %w", ref, err)
	}
	defer rc.Close()

	p, err := Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("persona %s: %w", s.reader.Location(ref), err)
	}
	return p, nil
}

// Location returns where ref resolves to in the underlying reader.
func (s *DocumentStore) Location(ref string) string {
	return s.reader.Location(ref)
}
