package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateSecureKey returns 32 random bytes encoded base64url, suitable as
// a signing key entry in QR_SIGNING_KEYS.
func GenerateSecureKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
