package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomPassword(t *testing.T) {
	p := GenerateRandomPassword(8)
	assert.Len(t, p, 8)
	for _, r := range p {
		assert.Contains(t, passwordChars, string(r))
	}

	assert.Len(t, GenerateRandomPassword(16), 16)
	assert.Len(t, GenerateRandomPassword(0), 8)
	assert.Len(t, GenerateRandomPassword(-3), 8)

	assert.NotEqual(t, GenerateRandomPassword(12), GenerateRandomPassword(12))
}

func TestFormatPhoneNumber(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0821234567", "+27821234567"},
		{"27821234567", "+27821234567"},
		{"+27821234567", "+27821234567"},
		{"082 123 4567", "+27821234567"},
		{"082-123-4567", "+27821234567"},
		{"821234567", "+27821234567"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatPhoneNumber(tc.in), "input %q", tc.in)
	}
}

func TestEarnings(t *testing.T) {
	assert.Equal(t, 0.0, Earnings(0))
	assert.Equal(t, 75.0, Earnings(1))
	assert.Equal(t, 750.0, Earnings(10))
}

func TestFormatRand(t *testing.T) {
	assert.Equal(t, "R 0.00", FormatRand(0))
	assert.Equal(t, "R 75.00", FormatRand(75))
	assert.Equal(t, "R 112.50", FormatRand(112.5))
}

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	signed, err := GenerateToken(42, "user@test.local", "student")
	require.NoError(t, err)

	token, err := ValidateToken(signed)
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["id"])
	assert.Equal(t, "user@test.local", claims["email"])
	assert.Equal(t, "student", claims["role"])
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	signed, err := GenerateToken(42, "user@test.local", "student")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "other-secret")
	_, err = ValidateToken(signed)
	assert.Error(t, err)
}
