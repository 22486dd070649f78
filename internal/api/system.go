// ABOUTME: Endpoints describing the caller and the running service
// ABOUTME: GET /api/currentUser (authenticated) and GET /api/systemInfo (public)

package api

import (
	"net/http"
	"time"

	"github.com/cs156/campus-api/internal/auth"
)

// SystemInfo is served at /api/systemInfo.
type SystemInfo struct {
	Version        string    `json:"version"`
	Database       string    `json:"database"`
	MetricsEnabled bool      `json:"metricsEnabled"`
	StartedAt      time.Time `json:"startedAt"`
}

// CurrentUserResponse is served at /api/currentUser.
type CurrentUserResponse struct {
	User        UserInfo `json:"user"`
	Roles       []string `json:"roles"`
	Authorities []string `json:"authorities"`
	Admin       bool     `json:"admin"`
}

// UserInfo identifies the authenticated principal.
type UserInfo struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// RegisterSystem mounts the currentUser and systemInfo endpoints.
func RegisterSystem(mux *http.ServeMux, gate *auth.Gate, info SystemInfo) {
	mux.Handle("GET /api/currentUser", gate.Require(auth.RoleUser)(http.HandlerFunc(handleCurrentUser)))
	mux.HandleFunc("GET /api/systemInfo", func(w http.ResponseWriter, r *http.Request) {
		sendJSON(w, http.StatusOK, info)
	})
}

func handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustFromContext(r.Context())
	roles := authCtx.Roles
	if roles == nil {
		roles = []string{}
	}
	sendJSON(w, http.StatusOK, CurrentUserResponse{
		User: UserInfo{
			ID:          authCtx.PrincipalID,
			Email:       authCtx.Email,
			DisplayName: authCtx.DisplayName,
		},
		Roles:       roles,
		Authorities: authCtx.Authorities(),
		Admin:       authCtx.IsAdmin(),
	})
}
