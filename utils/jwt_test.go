package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	InitLogger()
	ConfigureJWT("unit-test-secret", time.Hour)

	token, err := GenerateToken(7, "ana@example.com", "Customer")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "Customer", claims.Role)
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	InitLogger()
	ConfigureJWT("first-secret", time.Hour)
	token, err := GenerateToken(1, "a@example.com", "Admin")
	require.NoError(t, err)

	ConfigureJWT("second-secret", time.Hour)
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}
