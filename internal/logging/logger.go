// Package logging is the structured logger of the client. Diagnostics go
// to stderr so REPL output on stdout stays clean.
package logging

import "context"

// Logger writes leveled records with key/value attributes:
//
//	log.Debug(ctx, "api request", "method", method, "url", url)
//
// *SlogLogger is the only implementation; tests use Discard.
type Logger interface {
	// Debug is for per-request detail, off at the default level.
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	// Warn is for failures the client recovers from, such as a token that
	// could not be cleared.
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that adds args to every record, e.g. a
	// component name.
	With(args ...any) Logger
}
