package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestGenerateAndValidateJWT(t *testing.T) {
	token, err := GenerateJWT("buyer@example.com", testSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", claims.Email)
	assert.Equal(t, "buyer@example.com", claims.Subject)
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	token, err := GenerateJWT("buyer@example.com", testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(token, "some-other-secret")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestValidateJWT_Expired(t *testing.T) {
	token, err := GenerateJWT("buyer@example.com", testSecret, -time.Minute)
	require.NoError(t, err)

	claims, err := ValidateJWT(token, testSecret)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestValidateJWT_Garbage(t *testing.T) {
	claims, err := ValidateJWT("not.a.token", testSecret)
	assert.Error(t, err)
	assert.Nil(t, claims)
}
