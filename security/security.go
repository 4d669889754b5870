package security

import (
	"crypto/rand"
	"encoding/binary"
	"strings"
)

// GenerateExternalID builds an unguessable external id for gateway payouts.
// The gateway dedupes on this value so a retried payout call cannot
// double-pay.
func GenerateExternalID() (int64, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return 0, err
	}
	id := int64(binary.BigEndian.Uint64(b) &^ (1 << 63))
	if id == 0 {
		id = 1
	}
	return id, nil
}

// ValidateUploadContentType ensures receipt uploads arrive as multipart forms.
func ValidateUploadContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "multipart/form-data")
}
