package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// GenerateCode returns an uppercase hex string of n random bytes. Used for
// admin session tokens.
func GenerateCode(n int) (string, error) {
	byt := make([]byte, n)

	if _, err := rand.Read(byt); err != nil {
		return "", err
	}

	return strings.ToUpper(hex.EncodeToString(byt)), nil
}
