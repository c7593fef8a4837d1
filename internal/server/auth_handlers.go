package server

import (
	"encoding/json"
	"net/http"

	"github.com/johnlatif16/Story-stories/internal/auth"
	"github.com/johnlatif16/Story-stories/internal/config"
)

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}

// MeResponse describes the authenticated administrator.
type MeResponse struct {
	User UserResponse `json:"user"`
}

// UserResponse is the administrator identity shape.
type UserResponse struct {
	Username string `json:"username"`
}

// HandleLogin authenticates the administrator with username/password and
// issues a bearer token.
func HandleLogin(cfg *config.Config, authority *auth.Authority) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if req.Username == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "missing username or password")
			return
		}

		if req.Username != cfg.AdminUsername {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		if err := auth.CheckPassword(cfg.AdminPasswordHash, req.Password); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		token, err := authority.Issue(req.Username)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, LoginResponse{Token: token})
	}
}

// HandleMe returns the identity carried by the verified bearer token.
func HandleMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		writeJSON(w, http.StatusOK, MeResponse{User: UserResponse{Username: username}})
	}
}
