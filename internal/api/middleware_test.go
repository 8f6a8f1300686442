package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func authProbe(passwordHash, password string) http.Handler {
	return AuthMiddleware(passwordHash, password)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
}

func doAuthRequest(t *testing.T, handler http.Handler, headerValue string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/reset", nil)
	if headerValue != "" {
		req.Header.Set("X-Admin-Password", headerValue)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddlewarePlaintext(t *testing.T) {
	handler := authProbe("", "secret")

	assert.Equal(t, http.StatusNoContent, doAuthRequest(t, handler, "secret").Code)
	assert.Equal(t, http.StatusUnauthorized, doAuthRequest(t, handler, "wrong").Code)
	assert.Equal(t, http.StatusUnauthorized, doAuthRequest(t, handler, "").Code)
}

func TestAuthMiddlewareBcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	handler := authProbe(string(hash), "")

	assert.Equal(t, http.StatusNoContent, doAuthRequest(t, handler, "secret").Code)
	assert.Equal(t, http.StatusUnauthorized, doAuthRequest(t, handler, "wrong").Code)
}

func TestAuthMiddlewareHashPreferred(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hashed"), bcrypt.MinCost)
	require.NoError(t, err)
	handler := authProbe(string(hash), "plain")

	// Когда задан хеш, открытый пароль не учитывается.
	assert.Equal(t, http.StatusNoContent, doAuthRequest(t, handler, "hashed").Code)
	assert.Equal(t, http.StatusUnauthorized, doAuthRequest(t, handler, "plain").Code)
}

func TestAuthMiddlewareNotConfigured(t *testing.T) {
	handler := authProbe("", "")

	assert.Equal(t, http.StatusForbidden, doAuthRequest(t, handler, "anything").Code)
}
