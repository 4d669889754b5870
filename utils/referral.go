package utils

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

// ReferralType represents the type of account a referral code belongs to
type ReferralType string

const (
	SellerType ReferralType = "SLR"
	AdminType  ReferralType = "ADM"
)

// GenerateReferralCode generates a unique referral code for the given account
// type. Format: {TYPE}-{RANDOM} where RANDOM is 6 alphanumeric characters.
// Example: SLR-ABC123, ADM-XYZ789
func GenerateReferralCode(entityType ReferralType) (string, error) {
	// 4 random bytes give 6 characters in base32
	randomBytes := make([]byte, 4)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return "", err
	}

	randomStr := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)
	randomStr = randomStr[:6]

	randomStr = strings.ToUpper(randomStr)
	randomStr = strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, randomStr)

	if len(randomStr) < 6 {
		randomStr = randomStr + strings.Repeat("0", 6-len(randomStr))
	}

	return string(entityType) + "-" + randomStr, nil
}

// GenerateSellerReferralCode generates a referral code for a seller
func GenerateSellerReferralCode() (string, error) {
	return GenerateReferralCode(SellerType)
}

// GenerateAdminReferralCode generates a referral code for an admin; sellers
// sign up with it to bind their commissions to that admin.
func GenerateAdminReferralCode() (string, error) {
	return GenerateReferralCode(AdminType)
}
