package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrFileNotFound is returned when a requested document does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrInvalidPath is returned when a path is empty or escapes the source root.
	ErrInvalidPath = errors.New("invalid path")
)

const (
	SourceLocal = "local"
	SourceS3    = "s3"
)

// Reader is a read-only source of documents addressed by relative path.
type Reader interface {
	// Open returns the document at path. Missing documents yield ErrFileNotFound.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists reports whether a document is present at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Location describes where path resolves to, for diagnostics.
	Location(path string) string
}

// Config selects and parameterises a Reader.
type Config struct {
	Source   string // "local" or "s3"
	BaseDir  string // local: directory holding the documents
	S3Bucket string
	S3Region string
	S3Prefix string // optional key prefix inside the bucket
}

// NewReader creates a Reader based on configuration.
func NewReader(ctx context.Context, cfg Config) (Reader, error) {
	switch strings.ToLower(cfg.Source) {
	case "", SourceLocal:
		return NewLocalStorage(cfg.BaseDir)

	case SourceS3:
		s3Storage, err := NewS3Storage(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3Prefix)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		return s3Storage, nil

	default:
		return nil, fmt.Errorf("unsupported storage source: %s", cfg.Source)
	}
}
