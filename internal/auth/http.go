// ABOUTME: HTTP role gate for API endpoints
// ABOUTME: Authenticates the bearer JWT, loads roles, and rejects callers lacking a capability

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cs156/campus-api/internal/store"
)

// PrincipalStore defines the interface for retrieving principals.
type PrincipalStore interface {
	GetPrincipal(ctx context.Context, id string) (*store.Principal, error)
}

// RoleStore defines the interface for retrieving roles.
type RoleStore interface {
	ListRoles(ctx context.Context, principalID string) ([]store.RoleName, error)
}

// ErrAccessDenied covers every reason a caller is turned away at the gate.
var ErrAccessDenied = errors.New("access denied")

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns the token and an error message (empty if successful).
func extractBearerToken(authHeader string) (string, string) {
	if authHeader == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "invalid authorization header format"
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// checkPrincipalStatus validates that a principal has an allowed status.
// Returns an error message (empty if allowed).
func checkPrincipalStatus(status store.PrincipalStatus) string {
	switch status {
	case store.PrincipalStatusActive:
		return ""
	case store.PrincipalStatusRevoked:
		return "principal has been revoked"
	default:
		return "unknown principal status"
	}
}

// buildAuthContext creates an AuthContext from a principal and role list.
func buildAuthContext(p *store.Principal, roleNames []store.RoleName) *AuthContext {
	roleStrings := make([]string, len(roleNames))
	for i, rn := range roleNames {
		roleStrings[i] = string(rn)
	}
	return &AuthContext{
		PrincipalID: p.ID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		Roles:       roleStrings,
	}
}

// Gate authenticates requests and enforces route capabilities.
type Gate struct {
	principals PrincipalStore
	roles      RoleStore
	verifier   TokenVerifier
	logger     *slog.Logger
}

// NewGate creates a gate. A nil logger uses slog.Default().
func NewGate(principals PrincipalStore, roles RoleStore, verifier TokenVerifier, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		principals: principals,
		roles:      roles,
		verifier:   verifier,
		logger:     logger.With("component", "auth"),
	}
}

// Authenticate resolves the request's bearer token to an AuthContext.
// Credential problems wrap ErrAccessDenied; anything else is a store failure.
func (g *Gate) Authenticate(r *http.Request) (*AuthContext, error) {
	token, errMsg := extractBearerToken(r.Header.Get("Authorization"))
	if errMsg != "" {
		return nil, denied(errMsg)
	}

	principalID, err := g.verifier.Verify(token)
	if err != nil {
		return nil, denied(err.Error())
	}

	principal, err := g.principals.GetPrincipal(r.Context(), principalID)
	if errors.Is(err, store.ErrPrincipalNotFound) {
		return nil, denied("principal not found")
	}
	if err != nil {
		return nil, err
	}

	if errMsg = checkPrincipalStatus(principal.Status); errMsg != "" {
		return nil, denied(errMsg)
	}

	roleNames, err := g.roles.ListRoles(r.Context(), principalID)
	if err != nil {
		return nil, err
	}
	return buildAuthContext(principal, roleNames), nil
}

type deniedError struct{ reason string }

func (e *deniedError) Error() string { return "access denied: " + e.reason }
func (e *deniedError) Unwrap() error { return ErrAccessDenied }

func denied(reason string) error { return &deniedError{reason: reason} }

// Require returns middleware that admits only callers holding role. The check
// runs before the wrapped handler sees the request, so rejected callers never
// reach parameter decoding.
func (g *Gate) Require(role Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authCtx, err := g.Authenticate(r)
			if err != nil {
				if errors.Is(err, ErrAccessDenied) {
					g.logger.Debug("request denied", "path", r.URL.Path, "reason", err)
					WriteAccessDenied(w)
					return
				}
				g.logger.Error("authentication lookup failed", "path", r.URL.Path, "error", err)
				writeJSON(w, http.StatusInternalServerError, map[string]string{
					"type":    "RuntimeException",
					"message": "Failed to authenticate",
				})
				return
			}

			if !authCtx.Has(role) {
				g.logger.Debug("request denied", "path", r.URL.Path, "principal_id", authCtx.PrincipalID, "required", role)
				WriteAccessDenied(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAuth(r.Context(), authCtx)))
		})
	}
}

// WriteAccessDenied writes the 403 rejection body.
func WriteAccessDenied(w http.ResponseWriter) {
	writeJSON(w, http.StatusForbidden, map[string]string{
		"type":    "AccessDeniedException",
		"message": "Access Denied",
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
