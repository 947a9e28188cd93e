package integration

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// newTokenWithKey signs a bearer token with an arbitrary key. Scenarios use
// it to forge tokens the server must reject.
func newTokenWithKey(key []byte, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}
