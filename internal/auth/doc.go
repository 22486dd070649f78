// Package auth provides authentication and authorization for campus-api.
//
// # Bearer Tokens
//
// Callers authenticate with HS256 JWTs whose "sub" claim is a principal ID:
//
//	Authorization: Bearer <token>
//
// Tokens are signed with the configured jwt_secret (at least 32 bytes) and
// minted by the campus-api CLI ("token create" or "bootstrap").
//
// # Capabilities
//
// Routes require one of two capabilities:
//
//   - RoleUser: any authenticated principal whose status is active
//   - RoleAdmin: an active principal holding the "admin" role grant
//
// Gate.Require(role) wraps a handler. It authenticates the request, loads the
// principal's roles, attaches an AuthContext, and only then calls the handler.
// Every rejection (missing or bad token, unknown or revoked principal, missing
// role) is answered with 403 and an AccessDeniedException body.
//
// # Context Propagation
//
//	authCtx := auth.FromContext(r.Context())
//	if authCtx.IsAdmin() { ... }
package auth
