package middleware

import (
	"context"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/adapter/token"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
)

// ContextKey is the type of the request context keys set by this package.
type ContextKey string

const (
	// PrincipalCtxKey holds the authenticated domain.Principal.
	PrincipalCtxKey = ContextKey("principal")
	// SessionCtxKey holds the token.Session the principal was resolved from.
	SessionCtxKey = ContextKey("session")
)

func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(PrincipalCtxKey).(domain.Principal)
	return p, ok
}

func SessionFromContext(ctx context.Context) (token.Session, bool) {
	s, ok := ctx.Value(SessionCtxKey).(token.Session)
	return s, ok
}

// WithPrincipal returns a copy of ctx carrying p and s.
func WithPrincipal(ctx context.Context, p domain.Principal, s token.Session) context.Context {
	ctx = context.WithValue(ctx, PrincipalCtxKey, p)
	return context.WithValue(ctx, SessionCtxKey, s)
}
