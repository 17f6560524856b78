package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("test-secret-test-secret-test1234", 7, "owner@store.ph", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken("test-secret-test-secret-test1234", token)
	require.NoError(t, err)
	require.Equal(t, uint(7), claims.UserID)
	require.Equal(t, "owner@store.ph", claims.Email)
	require.Equal(t, "admin", claims.Role)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret-one-secret-one-secret-one", 1, "a@b.c", "admin")
	require.NoError(t, err)

	_, err = ValidateToken("secret-two-secret-two-secret-two", token)
	require.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := ValidateToken("whatever", "not-a-jwt")
	require.Error(t, err)
}
