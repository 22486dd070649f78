// ABOUTME: Authentication context for tracking identity through request handlers
// ABOUTME: Provides WithAuth/FromContext for propagating auth info via context

package auth

import (
	"context"
	"strings"
)

// Role is a capability a route can require.
type Role string

const (
	// RoleUser is held by every authenticated, active principal.
	RoleUser Role = "user"
	// RoleAdmin additionally requires the admin role grant.
	RoleAdmin Role = "admin"
)

// AuthContext holds the authenticated identity information extracted from a request.
// This is populated by the Gate and can be retrieved from context in handlers.
type AuthContext struct {
	PrincipalID string   // UUID of the authenticated principal
	Email       string   // principal's email address
	DisplayName string   // principal's display name
	Roles       []string // roles granted to this principal
}

// IsAdmin returns true if the principal holds the admin role.
func (a *AuthContext) IsAdmin() bool {
	for _, r := range a.Roles {
		if r == string(RoleAdmin) {
			return true
		}
	}
	return false
}

// Has reports whether the principal carries the capability.
func (a *AuthContext) Has(role Role) bool {
	switch role {
	case RoleUser:
		return true
	case RoleAdmin:
		return a.IsAdmin()
	default:
		return false
	}
}

// Authorities lists the capabilities held, as ROLE_USER / ROLE_ADMIN.
func (a *AuthContext) Authorities() []string {
	out := []string{"ROLE_" + strings.ToUpper(string(RoleUser))}
	if a.IsAdmin() {
		out = append(out, "ROLE_"+strings.ToUpper(string(RoleAdmin)))
	}
	return out
}

// authContextKey is the key type for storing AuthContext in context.Context.
type authContextKey struct{}

// WithAuth returns a new context with the AuthContext attached.
func WithAuth(ctx context.Context, auth *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, auth)
}

// FromContext retrieves the AuthContext from the context, returning nil if not present.
func FromContext(ctx context.Context) *AuthContext {
	val := ctx.Value(authContextKey{})
	if val == nil {
		return nil
	}
	auth, ok := val.(*AuthContext)
	if !ok {
		return nil
	}
	return auth
}

// MustFromContext retrieves the AuthContext from the context, panicking if not present.
func MustFromContext(ctx context.Context) *AuthContext {
	auth := FromContext(ctx)
	if auth == nil {
		panic("auth: AuthContext not found in context")
	}
	return auth
}
