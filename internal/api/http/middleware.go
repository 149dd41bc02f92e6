package http

import (
	"context"
	"net/http"
	"strings"

	"motorent-backend/internal/domain"
	"motorent-backend/internal/security"
)

type contextKey string

const callerKey contextKey = "caller"

// CallerFromContext returns the authenticated caller attached by the auth
// middleware. The second return is false on unauthenticated routes.
func CallerFromContext(ctx context.Context) (domain.Caller, bool) {
	caller, ok := ctx.Value(callerKey).(domain.Caller)
	return caller, ok
}

type AuthMiddleware struct {
	tokens security.TokenManager
}

func NewAuthMiddleware(tokens security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth validates the bearer token and injects the caller into the
// request context. Only access tokens are accepted here; refresh tokens go
// through the refresh endpoint.
func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := extractBearer(r)
		if !ok {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "authorization token is not provided"})
			return
		}

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			respondError(w, err)
			return
		}
		if claims.Type != security.TokenTypeAccess {
			respondError(w, security.ErrWrongTokenType)
			return
		}

		caller := domain.Caller{
			UserID: claims.UserID,
			Email:  claims.Email,
			Roles:  claims.Roles,
		}
		next(w, r.WithContext(context.WithValue(r.Context(), callerKey, caller)))
	}
}

// extractBearer accepts only the Bearer scheme. A raw token or any other
// scheme in the Authorization header is rejected.
func extractBearer(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return header[7:], true
	}
	return "", false
}
