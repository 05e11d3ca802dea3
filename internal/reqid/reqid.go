// Package reqid carries request identifiers through a context.
package reqid

import (
	"context"

	"github.com/google/uuid"
)

// Header is the HTTP header used to propagate request ids
const Header = "X-Request-ID"

type ctxKey struct{}

// New returns a fresh request id
func New() string {
	return uuid.NewString()
}

// WithContext stores id in ctx
func WithContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the request id stored in ctx, or an empty string
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
