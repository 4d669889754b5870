// utils/auth_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTokenFromHeaderMissing(t *testing.T) {
	resp, err := ValidateTokenFromHeader("", nil)
	assert.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Equal(t, "No authorization header provided", resp.Message)
}

func TestValidateTokenFromHeaderBadScheme(t *testing.T) {
	resp, err := ValidateTokenFromHeader("Basic abc123", nil)
	assert.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Equal(t, "Invalid authorization header format", resp.Message)
}

func TestValidateTokenFromHeaderGarbageToken(t *testing.T) {
	resp, err := ValidateTokenFromHeader("Bearer not-a-jwt", nil)
	assert.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Contains(t, resp.Message, "Invalid token")
}
