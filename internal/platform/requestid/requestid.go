// Package requestid carries the per-request correlation ID through contexts
// and log records.
package requestid

import (
	"context"
	"log/slog"
)

// Header is the HTTP header that carries a request ID.
const Header = "X-Request-ID"

const maxLength = 128

type ctxKey struct{}

// NewContext returns a context that carries the given request ID.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the request ID stored in ctx, or an empty string.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Attr is the log attribute for the request ID in ctx.
func Attr(ctx context.Context) slog.Attr {
	return slog.String("request_id", FromContext(ctx))
}

// Valid reports whether a client-supplied ID is safe to echo and log:
// non-empty, bounded, printable ASCII.
func Valid(id string) bool {
	if id == "" || len(id) > maxLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
