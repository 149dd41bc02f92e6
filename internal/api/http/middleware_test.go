package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"motorent-backend/internal/domain"
	"motorent-backend/internal/security"

	"github.com/stretchr/testify/assert"
)

func TestAuthMiddleware_RequireAuth(t *testing.T) {
	tm := security.NewTokenManager("test-secret", time.Minute, time.Hour)
	mw := NewAuthMiddleware(tm)

	var gotCaller domain.Caller
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		gotCaller, _ = CallerFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("ValidAccessToken", func(t *testing.T) {
		token, err := tm.GenerateAccessToken(42, "ana@example.com", []string{domain.RoleAdmin})
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/rentals/active", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int32(42), gotCaller.UserID)
		assert.True(t, gotCaller.IsAdmin())
	})

	t.Run("MissingToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/rentals/active", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("GarbageToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/rentals/active", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("SchemelessHeaderRejected", func(t *testing.T) {
		token, err := tm.GenerateAccessToken(42, "ana@example.com", []string{domain.RoleAdmin})
		assert.NoError(t, err)

		// a valid token without the Bearer scheme is still not accepted
		req := httptest.NewRequest(http.MethodGet, "/api/rentals/active", nil)
		req.Header.Set("Authorization", token)
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("WrongSchemeRejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/rentals/active", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("RefreshTokenRejected", func(t *testing.T) {
		token, err := tm.GenerateRefreshToken(42, "ana@example.com")
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/rentals/active", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
