// ABOUTME: HTTP middleware mapping authorization outcomes to status codes
// ABOUTME: Injects the resolved principal into request context for handlers

package auth

import (
	"encoding/json"
	"errors"
	"net/http"
)

// errorResponse is the JSON envelope for authorization failures.
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// writeAuthError writes a JSON error body with the given status code.
func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Status: "error", Message: message})
}

// RequireToken wraps a handler with token authentication. On success the
// resolved Principal is attached to the request context. Failure mapping:
// missing token 401, invalid/malformed/expired 400, unknown kind 400.
func (a *Authorizer) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := a.Authenticate(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			switch {
			case errors.Is(err, ErrMissingToken):
				writeAuthError(w, http.StatusUnauthorized, "Token is missing !")
			case errors.Is(err, ErrUnknownTokenType):
				writeAuthError(w, http.StatusBadRequest, "Invalid token type !")
			case errors.Is(err, ErrInvalidToken):
				writeAuthError(w, http.StatusBadRequest, "Token is invalid !")
			default:
				a.logger.Error("authentication failed", "error", err)
				writeAuthError(w, http.StatusInternalServerError, "Internal error")
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// RequireAdmin wraps a handler with the admin authorization path. Access
// tokens are rejected with 403 regardless of their owner's flags; user
// tokens without the admin permission get 401.
func (a *Authorizer) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.AuthorizeAdmin(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			switch {
			case errors.Is(err, ErrMissingToken):
				writeAuthError(w, http.StatusUnauthorized, "Token is missing !")
			case errors.Is(err, ErrWrongTokenKind):
				writeAuthError(w, http.StatusForbidden, "Invalid token type !")
			case errors.Is(err, ErrPermissionDenied):
				writeAuthError(w, http.StatusUnauthorized, "You don't have permission to do this !")
			case errors.Is(err, ErrUnknownTokenType), errors.Is(err, ErrInvalidToken):
				writeAuthError(w, http.StatusBadRequest, "Token is invalid !")
			default:
				a.logger.Error("admin authorization failed", "error", err)
				writeAuthError(w, http.StatusInternalServerError, "Internal error")
			}
			return
		}

		principal := &Principal{Kind: PrincipalUser, User: user}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}
