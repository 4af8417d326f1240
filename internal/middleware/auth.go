package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"campus-connect-api/internal/model"
	"campus-connect-api/internal/token"
)

type tokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

type contextKey string

const authClaimsContextKey contextKey = "auth_claims"

type AuthMiddleware struct {
	verifier tokenVerifier
}

func NewAuthMiddleware(verifier tokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAuth rejects requests without a valid bearer token. Missing, malformed
// and expired tokens all get the same 401 on the wire; the precise reason only
// shows up in the logs.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := BearerToken(r)
		if raw == "" {
			slog.Warn("auth rejected", "path", r.URL.Path, "reason", "missing bearer token")
			writeGuardError(w, "UNAUTHORIZED", "authentication required")
			return
		}

		claims, err := m.verifier.Verify(raw)
		if err != nil {
			slog.Warn("auth rejected", "path", r.URL.Path, "reason", err)
			writeGuardError(w, "UNAUTHORIZED", "authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), authClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a route already behind RequireAuth to a single role.
// A wrong role is an authorization failure, 403, never a silent downgrade.
func (m *AuthMiddleware) RequireRole(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeGuardError(w, "UNAUTHORIZED", "authentication required")
				return
			}

			if claims.Role != role {
				slog.Warn("role rejected", "path", r.URL.Path, "have", claims.Role, "want", role)
				writeGuardError(w, "FORBIDDEN", "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(authClaimsContextKey).(*token.Claims)
	return claims, ok
}

// BearerToken extracts the token from the Authorization header, or "".
func BearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}

	return strings.TrimSpace(header[7:])
}

func writeGuardError(w http.ResponseWriter, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	if code == "FORBIDDEN" {
		w.WriteHeader(http.StatusForbidden)
	} else {
		w.WriteHeader(http.StatusUnauthorized)
	}

	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Message: message,
		Error: &model.APIError{
			Code:    code,
			Message: message,
		},
	})
}
