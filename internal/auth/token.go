package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenDuration is the validity window of issued bearer tokens (7 days).
const TokenDuration = 7 * 24 * time.Hour

// ErrUnauthenticated is returned when a credential is missing, malformed,
// carries an invalid signature, or has expired.
var ErrUnauthenticated = errors.New("unauthenticated")

// Authority issues and verifies signed bearer tokens for the administrator
// identity. Verification is pure: it never consults a store, so an issued
// token stays valid until its expiry.
type Authority struct {
	secret []byte
	now    func() time.Time
}

// NewAuthority constructs an Authority from the shared signing secret.
// An empty secret is a configuration error, never a silent fallback.
func NewAuthority(secret string) (*Authority, error) {
	if secret == "" {
		return nil, errors.New("signing secret is required")
	}
	return &Authority{secret: []byte(secret), now: time.Now}, nil
}

// WithClock overrides the time source. Used by tests to exercise expiry.
func (a *Authority) WithClock(now func() time.Time) *Authority {
	a.now = now
	return a
}

// Issue signs a token carrying the given identity, valid for TokenDuration.
func (a *Authority) Issue(username string) (string, error) {
	if username == "" {
		return "", errors.New("username is required")
	}

	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenDuration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the token's signature and expiry and returns the identity it
// carries. All failure modes collapse into ErrUnauthenticated.
func (a *Authority) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrUnauthenticated
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: invalid token", ErrUnauthenticated)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token missing subject claim", ErrUnauthenticated)
	}
	return claims.Subject, nil
}
