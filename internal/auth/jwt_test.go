package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, jti, err := GenerateToken("secret", "user-1", "USER", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, jti)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Sub)
	assert.Equal(t, "USER", claims.Role)
	assert.Equal(t, jti, claims.ID)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, _, err := GenerateToken("secret", "user-1", "USER", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	token, _, err := GenerateToken("secret", "user-1", "USER", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken("secret", "not-a-token")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Sup3r$ecret")
	require.NoError(t, err)
	assert.NotEqual(t, "Sup3r$ecret", hash)

	assert.True(t, VerifyPassword(hash, "Sup3r$ecret"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}

func TestValidatePasswordStrength(t *testing.T) {
	assert.ErrorIs(t, ValidatePasswordStrength("short"), ErrPasswordTooShort)
	assert.ErrorIs(t, ValidatePasswordStrength("alllowercase1!"), ErrPasswordNoUpper)
	assert.ErrorIs(t, ValidatePasswordStrength("ALLUPPERCASE1!"), ErrPasswordNoLower)
	assert.ErrorIs(t, ValidatePasswordStrength("NoNumbers!!"), ErrPasswordNoNumber)
	assert.ErrorIs(t, ValidatePasswordStrength("NoSpecial123"), ErrPasswordNoSpecialChar)
	assert.NoError(t, ValidatePasswordStrength("Sup3r$ecret"))
}
