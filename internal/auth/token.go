// Package auth provides the credential primitives of the API: one-way
// password hashing and signed bearer tokens. Both are side-effect free and
// safe for concurrent use; all configuration is injected at construction.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/goodthings/server/internal/domain"
)

// DefaultTokenTTL is how long an issued token stays valid. It is a design
// constant, not runtime configuration.
const DefaultTokenTTL = 10 * time.Hour

// Identity is the payload extracted from a verified token. It lives for the
// duration of one request.
type Identity struct {
	UserID string
}

// claims are the signed token contents: registered iat/exp plus the subject
// user id.
type claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// TokenIssuer mints HS256-signed bearer tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer builds an issuer. A missing secret is a fatal
// misconfiguration, surfaced here rather than on a per-request path. The ttl
// is taken as-is (normal deployments pass DefaultTokenTTL); a zero or
// negative ttl produces tokens that are already expired.
func NewTokenIssuer(secret []byte, ttl time.Duration) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("token issuer: signing secret is empty")
	}
	return &TokenIssuer{secret: secret, ttl: ttl}, nil
}

// Issue signs a token asserting that userID is authenticated until
// issuedAt+ttl.
func (i *TokenIssuer) Issue(userID string) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		UserID: userID,
	})
	return t.SignedString(i.secret)
}

// TokenVerifier validates bearer tokens against the shared signing secret.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier builds a verifier; like the issuer, it refuses to run
// without a secret.
func NewTokenVerifier(secret []byte) (*TokenVerifier, error) {
	if len(secret) == 0 {
		return nil, errors.New("token verifier: signing secret is empty")
	}
	return &TokenVerifier{secret: secret}, nil
}

// Verify checks signature and expiry and extracts the carried identity.
// Malformed, tampered, and expired tokens all collapse to
// domain.ErrInvalidToken so callers cannot leak which check failed.
func (v *TokenVerifier) Verify(tokenString string) (Identity, error) {
	var c claims
	t, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid || c.UserID == "" {
		return Identity{}, domain.ErrInvalidToken
	}
	return Identity{UserID: c.UserID}, nil
}
