// Package crypto encrypts sensitive customer fields (Aadhaar and PAN numbers) at rest.
package crypto

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

// keySalt is fixed so the same passphrase always derives the same key across restarts.
var keySalt = []byte("leaddesk-field-cipher")

// FieldCipher seals short strings with XChaCha20-Poly1305.
// Sealed values are "<hex nonce>:<hex ciphertext>".
type FieldCipher struct {
	aead cipher.AEAD
}

// NewFieldCipher derives a 32-byte key from passphrase with scrypt.
func NewFieldCipher(passphrase string) (*FieldCipher, error) {
	if passphrase == "" {
		return nil, errors.New("encryption key is not configured")
	}

	key, err := scrypt.Key([]byte(passphrase), keySalt, 1<<15, 8, 1, chacha20poly1305.KeySize)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to init cipher: %w", err)
	}

	return &FieldCipher{aead: aead}, nil
}

// Encrypt seals plaintext. The empty string stays empty.
func (f *FieldCipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, f.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to read nonce: %w", err)
	}

	sealed := f.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(nonce) + ":" + hex.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt.
func (f *FieldCipher) Decrypt(value string) (string, error) {
	if value == "" {
		return "", nil
	}

	noncePart, sealedPart, ok := strings.Cut(value, ":")
	if !ok {
		return "", errors.New("malformed encrypted value")
	}

	nonce, err := hex.DecodeString(noncePart)
	if err != nil || len(nonce) != f.aead.NonceSize() {
		return "", errors.New("malformed nonce")
	}

	sealed, err := hex.DecodeString(sealedPart)
	if err != nil {
		return "", errors.New("malformed ciphertext")
	}

	plain, err := f.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}

	return string(plain), nil
}
