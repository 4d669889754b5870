package utils

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var referralCodePattern = regexp.MustCompile(`^(SLR|ADM)-[A-Z0-9]{6}$`)

func TestGenerateSellerReferralCode(t *testing.T) {
	code, err := GenerateSellerReferralCode()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(code, "SLR-"))
	assert.Regexp(t, referralCodePattern, code)
}

func TestGenerateAdminReferralCode(t *testing.T) {
	code, err := GenerateAdminReferralCode()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(code, "ADM-"))
	assert.Regexp(t, referralCodePattern, code)
}

func TestGenerateReferralCodeUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := GenerateSellerReferralCode()
		require.NoError(t, err)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}
