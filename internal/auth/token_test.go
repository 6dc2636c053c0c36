package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goodthings/server/internal/domain"
)

var testSecret = []byte("test-secret")

func newTokenPair(t *testing.T, ttl time.Duration) (*TokenIssuer, *TokenVerifier) {
	t.Helper()
	issuer, err := NewTokenIssuer(testSecret, ttl)
	require.NoError(t, err)
	verifier, err := NewTokenVerifier(testSecret)
	require.NoError(t, err)
	return issuer, verifier
}

func TestToken_IssueAndVerify(t *testing.T) {
	issuer, verifier := newTokenPair(t, DefaultTokenTTL)

	token, err := issuer.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", id.UserID)
}

func TestToken_ZeroTTLExpires(t *testing.T) {
	issuer, verifier := newTokenPair(t, 0)

	token, err := issuer.Issue("user-123")
	require.NoError(t, err)

	// exp == iat; once the clock ticks past it the token is dead.
	time.Sleep(1100 * time.Millisecond)
	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestToken_ExpiredTokenRejected(t *testing.T) {
	issuer, verifier := newTokenPair(t, -time.Minute)

	token, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestToken_RejectionsAreIndistinguishable(t *testing.T) {
	issuer, verifier := newTokenPair(t, DefaultTokenTTL)

	good, err := issuer.Issue("user-123")
	require.NoError(t, err)

	otherIssuer, err := NewTokenIssuer([]byte("other-secret"), DefaultTokenTTL)
	require.NoError(t, err)
	wrongKey, err := otherIssuer.Issue("user-123")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"malformed", "not.a.token"},
		{"empty", ""},
		{"tampered signature", good + "x"},
		{"wrong signing key", wrongKey},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := verifier.Verify(tc.token)
			require.ErrorIs(t, err, domain.ErrInvalidToken)
		})
	}
}

func TestToken_EmptySecretRejectedAtConstruction(t *testing.T) {
	_, err := NewTokenIssuer(nil, DefaultTokenTTL)
	require.Error(t, err)

	_, err = NewTokenVerifier(nil)
	require.Error(t, err)
}
