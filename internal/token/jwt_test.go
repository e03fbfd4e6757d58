package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_AccessToken_Roundtrip(t *testing.T) {
	j := NewJWT("secret", time.Hour, 24*time.Hour)
	u := uuid.New()

	before := time.Now()
	access, expiresAt, err := j.GenerateAccessToken(u)
	require.NoError(t, err)
	assert.WithinDuration(t, before.Add(time.Hour), expiresAt, 5*time.Second)

	got, err := j.ParseAccessToken(access)
	require.NoError(t, err)
	require.Equal(t, u, got)
}

func TestJWT_RefreshToken_Roundtrip(t *testing.T) {
	j := NewJWT("secret", time.Hour, 24*time.Hour)
	u := uuid.New()

	refresh, jti, err := j.GenerateRefreshToken(u)
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	gotUser, gotJTI, err := j.ParseRefreshToken(refresh)
	require.NoError(t, err)
	require.Equal(t, u, gotUser)
	require.Equal(t, jti, gotJTI)
}

func TestJWT_TokenType_Mismatch(t *testing.T) {
	j := NewJWT("secret", time.Hour, 24*time.Hour)
	u := uuid.New()

	access, _, err := j.GenerateAccessToken(u)
	require.NoError(t, err)
	_, _, err = j.ParseRefreshToken(access)
	require.ErrorContains(t, err, "token type mismatch")

	refresh, _, err := j.GenerateRefreshToken(u)
	require.NoError(t, err)
	_, err = j.ParseAccessToken(refresh)
	require.Error(t, err)
}

func TestJWT_WrongSecret(t *testing.T) {
	issuer := NewJWT("secret", time.Hour, time.Hour)
	other := NewJWT("other", time.Hour, time.Hour)

	access, _, err := issuer.GenerateAccessToken(uuid.New())
	require.NoError(t, err)

	_, err = other.ParseAccessToken(access)
	require.ErrorContains(t, err, "failed to parse access token")
}

func TestJWT_Expired(t *testing.T) {
	j := NewJWT("secret", time.Minute, time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	j.now = func() time.Time { return issued }

	access, _, err := j.GenerateAccessToken(uuid.New())
	require.NoError(t, err)
	refresh, _, err := j.GenerateRefreshToken(uuid.New())
	require.NoError(t, err)

	j.now = time.Now
	_, err = j.ParseAccessToken(access)
	require.Error(t, err)
	_, _, err = j.ParseRefreshToken(refresh)
	require.Error(t, err)
}
