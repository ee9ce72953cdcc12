package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const passwordChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateRandomPassword builds a temporary alphanumeric password for the
// SMS reset flow.
func GenerateRandomPassword(length int) string {
	if length <= 0 {
		length = 8
	}
	var b strings.Builder
	max := big.NewInt(int64(len(passwordChars)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken
			panic(err)
		}
		b.WriteByte(passwordChars[n.Int64()])
	}
	return b.String()
}

// FormatPhoneNumber normalizes a local contact number to E.164 with the
// South African country code.
func FormatPhoneNumber(contact string) string {
	var cleaned strings.Builder
	for _, r := range contact {
		if r >= '0' && r <= '9' {
			cleaned.WriteRune(r)
		}
	}
	digits := cleaned.String()

	if strings.HasPrefix(digits, "0") {
		return "+27" + digits[1:]
	}
	if strings.HasPrefix(digits, "27") {
		return "+" + digits
	}
	return "+27" + digits
}
