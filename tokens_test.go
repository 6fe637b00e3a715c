package userhub_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	uh "github.com/userhub/userhub"
)

func TestSignAndVerifySessionToken(t *testing.T) {
	t.Parallel()

	token, err := uh.SignSessionToken("user-123", "super-secret", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := uh.VerifySessionToken(token, "super-secret")
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestVerifySessionToken_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := uh.SignSessionToken("user-123", "right-secret", time.Hour)
	require.NoError(t, err)

	_, err = uh.VerifySessionToken(token, "wrong-secret")
	assert.Error(t, err)
}

func TestVerifySessionToken_Expired(t *testing.T) {
	t.Parallel()

	token, err := uh.SignSessionToken("user-123", "secret", -time.Second)
	require.NoError(t, err)

	_, err = uh.VerifySessionToken(token, "secret")
	assert.Error(t, err)
}

func TestVerifySessionToken_Malformed(t *testing.T) {
	t.Parallel()

	_, err := uh.VerifySessionToken("not.a.jwt", "secret")
	assert.Error(t, err)
}

func TestSessionTokensAreDistinct(t *testing.T) {
	t.Parallel()

	first, err := uh.SignSessionToken("user-123", "secret", time.Hour)
	require.NoError(t, err)
	second, err := uh.SignSessionToken("user-123", "secret", time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestGenerateVerificationToken(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := uh.GenerateVerificationToken()
		require.NoError(t, err)
		assert.Len(t, token, 64) // 32 bytes, hex encoded
		assert.False(t, seen[token], "tokens must be unique")
		seen[token] = true
	}
}
