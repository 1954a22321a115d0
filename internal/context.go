package internal

import (
	"context"
	"time"

	"github.com/dchesque/app-loja/internal/core/user"
)

type ctxKey string

const ContextIdentityKey ctxKey = "identity"

// IdentityFromContext returns the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (user.Identity, bool) {
	if ctx == nil {
		return user.Identity{}, false
	}
	id, ok := ctx.Value(ContextIdentityKey).(user.Identity)
	if !ok || id.ID == "" {
		return user.Identity{}, false
	}
	return id, true
}

func ContextWithIdentity(ctx context.Context, id user.Identity) context.Context {
	return context.WithValue(ctx, ContextIdentityKey, id)
}

// UserIDFromContext returns the authenticated user id or "".
func UserIDFromContext(ctx context.Context) string {
	id, _ := IdentityFromContext(ctx)
	return id.ID
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
