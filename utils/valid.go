// utils/valid.go
package utils

import (
	"errors"
	"html"
	"regexp"
	"strings"
	"unicode"
)

// SanitizeInput sanitizes user input to prevent XSS and injection attacks
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = html.EscapeString(input)

	// Remove control characters
	input = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)

	scriptRegex := regexp.MustCompile(`<script[^>]*>.*?</script>`)
	input = scriptRegex.ReplaceAllString(input, "")

	return input
}

// SanitizeEmail sanitizes and validates an email address
func SanitizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	email = strings.ToLower(email)

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return "", errors.New("invalid email format")
	}

	return email, nil
}

// SanitizeUsdtID validates a TRC20 wallet address used for payouts
func SanitizeUsdtID(usdtID string) (string, error) {
	usdtID = strings.TrimSpace(usdtID)
	if usdtID == "" {
		return "", errors.New("usdt wallet address is required")
	}

	// TRC20 addresses start with T and are 34 base58 characters
	trcRegex := regexp.MustCompile(`^T[1-9A-HJ-NP-Za-km-z]{33}$`)
	if !trcRegex.MatchString(usdtID) {
		return "", errors.New("invalid usdt wallet address")
	}

	return usdtID, nil
}
