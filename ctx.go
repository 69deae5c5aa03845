package signup

import (
	"context"

	"github.com/goliatone/go-router"
)

var sessionCtxKey = &contextKey{"session"}

type contextKey struct {
	name string
}

// WithSessionContext sets the validated session claims in the given context
func WithSessionContext(ctx context.Context, claims *SessionClaims) context.Context {
	return context.WithValue(ctx, sessionCtxKey, claims)
}

// SessionFromContext finds the session claims from the context.
func SessionFromContext(ctx context.Context) (*SessionClaims, bool) {
	claims, ok := ctx.Value(sessionCtxKey).(*SessionClaims)
	return claims, ok
}

// SessionFromRouter extracts session claims stored in the router locals,
// where token middleware usually leaves them.
func SessionFromRouter(ctx router.Context, key string) (*SessionClaims, bool) {
	if key == "" {
		key = "session"
	}
	raw := ctx.Locals(key)
	if raw == nil {
		return nil, false
	}
	claims, ok := raw.(*SessionClaims)
	return claims, ok
}

// HasRole is a convenience to check the minimum role directly from the
// standard context. A missing session never satisfies any role.
func HasRole(ctx context.Context, min UserRole) bool {
	claims, ok := SessionFromContext(ctx)
	if !ok {
		return false
	}
	return claims.Role().IsAtLeast(min)
}
