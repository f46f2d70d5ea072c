package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// RandomToken returns 32 bytes of entropy, URL-safe base64 encoded. Used as
// an unusable placeholder password for accounts created via Google sign-in.
func RandomToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
