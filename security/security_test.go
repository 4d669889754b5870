package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateExternalID(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 100; i++ {
		id, err := GenerateExternalID()
		require.NoError(t, err)
		assert.Positive(t, id)
		assert.False(t, seen[id], "duplicate external id %d", id)
		seen[id] = true
	}
}

func TestValidateUploadContentType(t *testing.T) {
	assert.True(t, ValidateUploadContentType("multipart/form-data; boundary=xyz"))
	assert.False(t, ValidateUploadContentType("application/json"))
	assert.False(t, ValidateUploadContentType(""))
}
