package logger

import "context"

// Logger is the structured logger used across the runner. Console output that
// forms part of the CLI contract is written separately; Logger is for
// diagnostics only.
type Logger interface {
	// Debug logs a debug-level message with optional fields
	Debug(ctx context.Context, msg string, fields map[string]interface{})

	// Info logs an info-level message with optional fields
	Info(ctx context.Context, msg string, fields map[string]interface{})

	// Warn logs a warning-level message with optional fields
	Warn(ctx context.Context, msg string, fields map[string]interface{})

	// Error logs an error-level message with optional fields
	Error(ctx context.Context, msg string, fields map[string]interface{})

	// WithField returns a logger that adds key to every entry
	WithField(key string, value interface{}) Logger

	// WithFields returns a logger that adds fields to every entry
	WithFields(fields map[string]interface{}) Logger
}
