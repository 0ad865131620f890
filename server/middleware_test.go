package server

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"wavebox/core/auth"
	"wavebox/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandler() (*APIHandler, http.HandlerFunc) {
	h := &APIHandler{}
	next := func(w http.ResponseWriter, r *http.Request) {
		userID, _ := GetUserIDFromContext(r.Context())
		role, _ := GetRoleFromContext(r.Context())
		w.Header().Set("X-User-ID", strconv.FormatInt(userID, 10))
		w.Header().Set("X-Role", role)
		w.WriteHeader(http.StatusOK)
	}
	return h, next
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	h, next := testHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/favorites", nil)
	rec := httptest.NewRecorder()
	h.AuthMiddleware(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	h, next := testHandler()

	for _, header := range []string{"Bearer", "Token abc", "Bearer a b"} {
		req := httptest.NewRequest(http.MethodGet, "/api/favorites", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		h.AuthMiddleware(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestAuthMiddlewarePassesIdentity(t *testing.T) {
	auth.Init("middleware-test-secret", time.Hour)
	token, err := auth.GenerateToken(9, model.RoleUser)
	require.NoError(t, err)

	h, next := testHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/favorites", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.AuthMiddleware(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "9", rec.Header().Get("X-User-ID"))
	assert.Equal(t, model.RoleUser, rec.Header().Get("X-Role"))
}

func TestOptionalAuthMiddlewareAllowsAnonymous(t *testing.T) {
	h, next := testHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/playlists", nil)
	rec := httptest.NewRecorder()
	h.OptionalAuthMiddleware(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-User-ID"))
}

func TestAdminOnlyRejectsNonAdmin(t *testing.T) {
	auth.Init("middleware-test-secret", time.Hour)
	token, err := auth.GenerateToken(9, model.RoleUser)
	require.NoError(t, err)

	h, next := testHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/genres", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.AuthMiddleware(h.AdminOnly(next)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminOnlyAllowsAdmin(t *testing.T) {
	auth.Init("middleware-test-secret", time.Hour)
	token, err := auth.GenerateToken(1, model.RoleAdmin)
	require.NoError(t, err)

	h, next := testHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/genres", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.AuthMiddleware(h.AdminOnly(next)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.RoleAdmin, rec.Header().Get("X-Role"))
}

func TestClientAddrPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:54321"
	assert.Equal(t, "10.0.0.1", clientAddr(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientAddr(req))
}
