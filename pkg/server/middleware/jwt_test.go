package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedHandler(t *testing.T, wantSubject string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, ok := Subject(r.Context())
		assert.True(t, ok)
		assert.Equal(t, wantSubject, subject)
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware_ValidToken(t *testing.T) {
	auth := NewJWTAuthenticator([]byte("test-key"))

	token, err := auth.IssueToken("alice", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/findings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	auth.Middleware(protectedHandler(t, "alice")).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddleware_MissingHeader(t *testing.T) {
	auth := NewJWTAuthenticator([]byte("test-key"))

	req := httptest.NewRequest("GET", "/findings", nil)
	w := httptest.NewRecorder()

	auth.Middleware(protectedHandler(t, "")).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authorization missing")
}

func TestMiddleware_MalformedHeader(t *testing.T) {
	auth := NewJWTAuthenticator([]byte("test-key"))

	req := httptest.NewRequest("GET", "/findings", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()

	auth.Middleware(protectedHandler(t, "")).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Malformed authorization header")
}

func TestMiddleware_WrongKey(t *testing.T) {
	auth := NewJWTAuthenticator([]byte("test-key"))
	other := NewJWTAuthenticator([]byte("other-key"))

	token, err := other.IssueToken("alice", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/findings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	auth.Middleware(protectedHandler(t, "")).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	auth := NewJWTAuthenticator([]byte("test-key"))

	token, err := auth.IssueToken("alice", -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/findings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	auth.Middleware(protectedHandler(t, "")).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_RejectsNoneAlgorithm(t *testing.T) {
	auth := NewJWTAuthenticator([]byte("test-key"))

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "alice"})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/findings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	auth.Middleware(protectedHandler(t, "")).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestKeyFromEnv(t *testing.T) {
	t.Setenv("ZTGUARD_JWT_KEY", "")
	_, err := KeyFromEnv()
	assert.Error(t, err)

	t.Setenv("ZTGUARD_JWT_KEY", "test-key")
	key, err := KeyFromEnv()
	require.NoError(t, err)
	assert.Equal(t, []byte("test-key"), key)
}
