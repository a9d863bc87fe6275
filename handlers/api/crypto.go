// handlers/api/crypto.go
package api

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

// The upstream session cookie is the user's credential; it is sealed before
// being written into the local session store.

// SealCookie encrypts an upstream session cookie with the 32-byte key.
func SealCookie(cookie, key string) (string, error) {
	var boxKey [32]byte
	if len(key) != 32 {
		return "", fmt.Errorf("encryption key must be 32 bytes, got %d", len(key))
	}
	copy(boxKey[:], key)

	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %v", err)
	}

	sealed := secretbox.Seal(nonce[:], []byte(cookie), &nonce, &boxKey)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// OpenCookie decrypts a cookie sealed by SealCookie.
func OpenCookie(sealed, key string) (string, error) {
	var boxKey [32]byte
	if len(key) != 32 {
		return "", fmt.Errorf("encryption key must be 32 bytes, got %d", len(key))
	}
	copy(boxKey[:], key)

	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("invalid sealed cookie: %v", err)
	}
	if len(raw) < 24 {
		return "", fmt.Errorf("sealed cookie too short")
	}

	var nonce [24]byte
	copy(nonce[:], raw[:24])

	plain, ok := secretbox.Open(nil, raw[24:], &nonce, &boxKey)
	if !ok {
		return "", fmt.Errorf("failed to open sealed cookie")
	}
	return string(plain), nil
}
