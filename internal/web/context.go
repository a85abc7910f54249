package web

import (
	"context"

	"github.com/reliefpc/clinic-portal/internal/session"
)

type contextKey string

const identityKey contextKey = "identity"

// WithIdentity attaches the authenticated identity to a request context.
func WithIdentity(ctx context.Context, id *session.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (*session.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*session.Identity)
	return id, ok && id != nil
}
