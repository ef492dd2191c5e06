// Package reqid carries a correlation ID through one schema build or query
// execution pass.
package reqid

import (
	"context"

	"github.com/google/uuid"
)

// key is the context key for the pass ID.
type key struct{}

// NewContext returns a copy of parent with a new random ID stored.
// It also returns the generated ID.
func NewContext(parent context.Context) (context.Context, string) {
	id := uuid.NewString()
	return context.WithValue(parent, key{}, id), id
}

// Ensure returns ctx unchanged if it already carries an ID, otherwise a
// copy with a new one.
func Ensure(ctx context.Context) (context.Context, string) {
	if id, ok := FromContext(ctx); ok {
		return ctx, id
	}
	return NewContext(ctx)
}

// FromContext extracts the ID from ctx.
// It returns the ID and whether it was present.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(key{}).(string)
	return id, ok
}
