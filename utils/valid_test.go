package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeEmail(t *testing.T) {
	email, err := SanitizeEmail("  Seller@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "seller@example.com", email)
}

func TestSanitizeEmailRejectsInvalid(t *testing.T) {
	for _, bad := range []string{"", "not-an-email", "a@b", "user@.com"} {
		_, err := SanitizeEmail(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestSanitizeInputStripsScripts(t *testing.T) {
	out := SanitizeInput("hello <script>alert(1)</script> world")
	assert.NotContains(t, out, "<script>")
}

func TestSanitizeUsdtID(t *testing.T) {
	addr := "TN3W4H6rK2ce4vX9YnFQHwKENnHjoxb3m9"
	got, err := SanitizeUsdtID(" " + addr + " ")
	require.NoError(t, err)
	assert.Equal(t, addr, got)
}

func TestSanitizeUsdtIDRejectsInvalid(t *testing.T) {
	for _, bad := range []string{
		"",
		"N3W4H6rK2ce4vX9YnFQHwKENnHjoxb3m9T",  // does not start with T
		"T0000000000000000000000000000000000", // 0 is not base58
		"Tshort",
	} {
		_, err := SanitizeUsdtID(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}
