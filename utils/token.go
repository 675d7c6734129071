package utils

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
)

// GenerateConfirmationToken returns an opaque random token suitable for
// client self-confirmation links. 20 random bytes give 160 bits of entropy,
// base32 encoded without padding.
func GenerateConfirmationToken() (string, error) {
	randomBytes := make([]byte, 20)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes), nil
}
