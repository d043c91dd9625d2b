package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("abc123", bcrypt.MinCost)

	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "abc123", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))
}

func TestHashPassword_TooShort(t *testing.T) {
	_, err := HashPassword("abc", bcrypt.MinCost)

	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", 73), bcrypt.MinCost)

	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("abc123", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NoError(t, CheckPassword("abc123", hash))
	assert.ErrorIs(t, CheckPassword("wrong-password", hash), ErrInvalidPassword)
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	first, err := HashPassword("abc123", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := HashPassword("abc123", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
