// ABOUTME: HTTP API handlers for login, registration, tokens and containers
// ABOUTME: Registers routes with auth middleware and maps errors to JSON bodies

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/berthd/berth-gateway/internal/auth"
	"github.com/berthd/berth-gateway/internal/runtime"
	"github.com/berthd/berth-gateway/internal/store"
)

// LoginRequest is the JSON request body for POST /auth.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the JSON request body for POST /register.
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Permission  bool   `json:"permission"`
	CreateToken bool   `json:"create_token"`
}

// IssueTokenRequest is the JSON request body for POST /token.
type IssueTokenRequest struct {
	Description string `json:"description"`
}

// PermissionResponse describes a user's permission bits.
type PermissionResponse struct {
	Admin       bool `json:"admin"`
	CreateToken bool `json:"create_token"`
}

// UserResponse is the per-user element of GET /api/v1/users. Password hashes
// are never exposed.
type UserResponse struct {
	ID         int64              `json:"id"`
	UUID       string             `json:"uuid"`
	Username   string             `json:"username"`
	Permission PermissionResponse `json:"permission"`
}

// routes builds the HTTP mux with auth middleware applied per route.
func (g *Gateway) routes() *http.ServeMux {
	mux := http.NewServeMux()

	requireToken := g.authorizer.RequireToken
	requireAdmin := g.authorizer.RequireAdmin

	mux.HandleFunc("GET /health", g.handleHealth)
	mux.HandleFunc("POST /auth", g.handleLogin)
	mux.Handle("POST /register", requireAdmin(http.HandlerFunc(g.handleRegister)))
	mux.Handle("POST /token", requireToken(http.HandlerFunc(g.handleIssueToken)))
	mux.Handle("GET /api/v1/users", requireAdmin(http.HandlerFunc(g.handleListUsers)))
	mux.Handle("GET /api/v1/status", requireToken(http.HandlerFunc(g.handleStatus)))
	mux.Handle("GET /api/v1/start/{name}", requireToken(http.HandlerFunc(g.handleStart)))
	mux.Handle("GET /api/v1/stop/{name}", requireToken(http.HandlerFunc(g.handleStop)))
	mux.Handle("GET /api/v1/restart/{name}", requireToken(http.HandlerFunc(g.handleRestart)))

	return mux
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the standard error envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"status": "error", "message": message})
}

// handleHealth handles GET /health. No auth required.
func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"state": "running"})
}

// handleLogin handles POST /auth. Verifies credentials and returns a
// short-lived user token.
func (g *Gateway) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Invalid request !")
		return
	}

	token, err := g.authenticator.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) || errors.Is(err, auth.ErrBadPassword) {
			writeError(w, http.StatusUnauthorized, "Invalid username or password !")
			return
		}
		g.logger.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "token": token})
}

// handleRegister handles POST /register. Admin only; creates a user with the
// requested permission bits.
func (g *Gateway) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Invalid request !")
		return
	}

	user, err := g.store.CreateUser(r.Context(), req.Username, req.Password, req.Permission, req.CreateToken)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			writeError(w, http.StatusBadRequest, "User already exists !")
			return
		}
		g.logger.Error("user registration failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	g.logger.Info("user registered", "username", user.Username, "admin", user.Admin)
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "User " + user.Username + " created !",
	})
}

// handleIssueToken handles POST /token. Only user-token principals may mint
// access tokens; access-token bearers are rejected before the permission
// check.
func (g *Gateway) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustPrincipalFromContext(r.Context())
	if principal.Kind != auth.PrincipalUser {
		writeError(w, http.StatusUnauthorized, "Invalid token type !")
		return
	}

	// The description is optional. A missing, empty or malformed body is
	// treated as no description, which the issuer replaces with a
	// generated one.
	var req IssueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req.Description = ""
	}

	token, err := g.issuer.IssueAccessToken(r.Context(), principal.User, req.Description)
	if err != nil {
		if errors.Is(err, auth.ErrPermissionDenied) {
			writeError(w, http.StatusForbidden, "You don't have permission to do this !")
			return
		}
		g.logger.Error("token issuance failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Token created",
		"token":   token,
	})
}

// handleListUsers handles GET /api/v1/users. Admin only.
func (g *Gateway) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := g.store.ListUsers(r.Context())
	if err != nil {
		g.logger.Error("listing users failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	result := make([]UserResponse, 0, len(users))
	for _, u := range users {
		result = append(result, UserResponse{
			ID:       u.ID,
			UUID:     u.UUID,
			Username: u.Username,
			Permission: PermissionResponse{
				Admin:       u.Admin,
				CreateToken: u.CanIssueTokens,
			},
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "result": result})
}

// handleStatus handles GET /api/v1/status. The optional containers query
// parameter narrows the listing to a comma-separated set of names. The
// response is a bare JSON array, not the usual status envelope.
func (g *Gateway) handleStatus(w http.ResponseWriter, r *http.Request) {
	names := parseContainerNames(r.URL.Query().Get("containers"))

	containers, err := g.runtime.List(r.Context(), names)
	if err != nil {
		g.logger.Error("container status failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	if containers == nil {
		containers = []runtime.Container{}
	}
	writeJSON(w, http.StatusOK, containers)
}

// parseContainerNames splits a comma-separated name list, dropping empties.
func parseContainerNames(raw string) []string {
	if raw == "" {
		return nil
	}
	var names []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// handleStart handles GET /api/v1/start/{name}.
func (g *Gateway) handleStart(w http.ResponseWriter, r *http.Request) {
	g.handleContainerAction(w, r, "started", g.runtime.Start)
}

// handleStop handles GET /api/v1/stop/{name}.
func (g *Gateway) handleStop(w http.ResponseWriter, r *http.Request) {
	g.handleContainerAction(w, r, "stopped", g.runtime.Stop)
}

// handleRestart handles GET /api/v1/restart/{name}.
func (g *Gateway) handleRestart(w http.ResponseWriter, r *http.Request) {
	g.handleContainerAction(w, r, "restarted", g.runtime.Restart)
}

// handleContainerAction runs a lifecycle action against the named container
// and writes the action message.
func (g *Gateway) handleContainerAction(w http.ResponseWriter, r *http.Request, verb string, action func(ctx context.Context, name string) error) {
	name := r.PathValue("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "Invalid request !")
		return
	}

	if err := action(r.Context(), name); err != nil {
		if errors.Is(err, runtime.ErrContainerNotFound) {
			writeError(w, http.StatusNotFound, "Container not found !")
			return
		}
		g.logger.Error("container action failed", "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	g.logger.Info("container action", "name", name, "action", verb)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Container " + verb})
}
