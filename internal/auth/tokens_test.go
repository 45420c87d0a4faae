package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens_IssueAndParse(t *testing.T) {
	tokens := NewTokens("test-secret", "finance-tracker")

	sessionID, err := GenerateSessionToken()
	require.NoError(t, err)

	signed, err := tokens.Issue(sessionID, "alice", time.Hour)
	require.NoError(t, err)

	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, sessionID, claims.ID)
}

func TestTokens_RejectsWrongSecret(t *testing.T) {
	signed, err := NewTokens("secret-a", "finance-tracker").Issue("sid", "alice", time.Hour)
	require.NoError(t, err)

	_, err = NewTokens("secret-b", "finance-tracker").Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_RejectsExpired(t *testing.T) {
	tokens := NewTokens("test-secret", "finance-tracker")
	signed, err := tokens.Issue("sid", "alice", -time.Minute)
	require.NoError(t, err)

	_, err = tokens.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_RejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "sid",
			Issuer:    "finance-tracker",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokens("test-secret", "finance-tracker").Parse(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateSessionToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		token, err := GenerateSessionToken()
		require.NoError(t, err)
		assert.False(t, seen[token], "duplicate session token %s", token)
		seen[token] = true
	}
}

func TestRandomSecret(t *testing.T) {
	secret, err := RandomSecret(32)
	require.NoError(t, err)
	assert.Len(t, secret, 64)
}
