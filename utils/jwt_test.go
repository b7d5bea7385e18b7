package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	token, err := svc.Issue(5, 9)
	require.NoError(t, err)

	identity, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: 5, OrganisationID: 9}, identity)
}

func TestTokenService_Expiry(t *testing.T) {
	issuedAt := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	svc := NewTokenService("secret", 0)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.Issue(1, 2)
	require.NoError(t, err)

	svc.now = func() time.Time { return issuedAt.Add(DefaultTokenTTL - time.Minute) }
	_, err = svc.Parse(token)
	assert.NoError(t, err)

	svc.now = func() time.Time { return issuedAt.Add(DefaultTokenTTL + time.Minute) }
	_, err = svc.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Rejects(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	foreign, err := NewTokenService("another-secret", time.Hour).Issue(1, 2)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID:         1,
		OrganisationID: 2,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:         1,
		OrganisationID: 2,
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	missingOrg, err := svc.Issue(1, 0)
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":        "abc",
		"wrong secret":   foreign,
		"alg none":       unsigned,
		"no expiry":      noExpiry,
		"missing org id": missingOrg,
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Parse(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "battery staple"))
	assert.False(t, CheckPassword("not-a-hash", "correct horse"))
}
