// ABOUTME: Principal type and context propagation for authenticated requests
// ABOUTME: Provides WithPrincipal/PrincipalFromContext for handlers behind middleware

package auth

import (
	"context"

	"github.com/berthd/berth-gateway/internal/store"
)

// PrincipalKind describes how a request authenticated.
type PrincipalKind string

const (
	// PrincipalUser is a human session authenticated with a user token.
	PrincipalUser PrincipalKind = "user"

	// PrincipalAccessToken is an application authenticated with an access
	// token. It carries the owning user's identity and authority for
	// token-guarded routes, but never satisfies admin checks.
	PrincipalAccessToken PrincipalKind = "access_token"
)

// Principal is the resolved identity a request acts as after token
// verification. User is always the underlying user record: for access-token
// bearers it is the token's owner.
type Principal struct {
	Kind PrincipalKind
	User *store.User
}

// principalContextKey is the key type for storing a Principal in context.Context.
type principalContextKey struct{}

// WithPrincipal returns a new context with the Principal attached.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext retrieves the Principal from the context, returning nil if not present.
func PrincipalFromContext(ctx context.Context) *Principal {
	val := ctx.Value(principalContextKey{})
	if val == nil {
		return nil
	}
	p, ok := val.(*Principal)
	if !ok {
		return nil
	}
	return p
}

// MustPrincipalFromContext retrieves the Principal from the context, panicking if not present.
func MustPrincipalFromContext(ctx context.Context) *Principal {
	p := PrincipalFromContext(ctx)
	if p == nil {
		panic("auth: Principal not found in context")
	}
	return p
}
