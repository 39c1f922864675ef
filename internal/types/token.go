package types

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateSecureToken returns a hex encoded token of nBytes random bytes
// read from crypto/rand. 16 bytes gives a 128 bit token with negligible
// collision probability, suitable as an unguessable capability.
func GenerateSecureToken(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
