package middleware

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

// subjectKey carries the authenticated subject on the request context
const subjectKey contextKey = "subject"

// JWTAuthenticator is middleware that validates bearer JWT tokens signed
// with an HMAC key.
type JWTAuthenticator struct {
	key []byte
}

// NewJWTAuthenticator creates a new JWT authenticator middleware
func NewJWTAuthenticator(key []byte) *JWTAuthenticator {
	return &JWTAuthenticator{key: key}
}

// KeyFromEnv reads the signing key from ZTGUARD_JWT_KEY.
func KeyFromEnv() ([]byte, error) {
	key := os.Getenv("ZTGUARD_JWT_KEY")
	if key == "" {
		return nil, fmt.Errorf("ZTGUARD_JWT_KEY environment variable is required")
	}
	return []byte(key), nil
}

// IssueToken signs a token for the subject, valid for the given duration.
func (j *JWTAuthenticator) IssueToken(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return token.SignedString(j.key)
}

// Subject returns the authenticated subject from the request context.
func Subject(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey).(string)
	return subject, ok
}

// Middleware returns an HTTP middleware that validates bearer JWT tokens
func (j *JWTAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if len(authHeader) == 0 {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Authorization missing"))
			return
		}

		tokenStr, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenStr == "" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Malformed authorization header"))
			return
		}

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return j.key, nil
		}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
		if err != nil || !token.Valid {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Invalid authorization token"))
			return
		}

		subject, err := token.Claims.GetSubject()
		if err != nil || subject == "" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Token missing subject"))
			return
		}

		ctx := context.WithValue(r.Context(), subjectKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
