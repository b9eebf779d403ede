package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tindahan/tindahan/internal/core/domain"
)

// ErrSealedDataCorrupt is returned when a stored credential blob cannot be
// authenticated or decoded. Callers treat it as "no usable credential".
var ErrSealedDataCorrupt = errors.New("sealed credential data corrupt")

// sealKey derives a fixed-size AES key from the configured secret.
func sealKey(secret string) []byte {
	key := sha256.Sum256([]byte(secret))
	return key[:]
}

// SealCredential encrypts a credential bundle with AES-GCM. The nonce is
// prepended to the ciphertext.
func SealCredential(cred *domain.CachedCredential, secret string) ([]byte, error) {
	plaintext, err := json.Marshal(cred)
	if err != nil {
		return nil, fmt.Errorf("failed to encode credential: %w", err)
	}

	block, err := aes.NewCipher(sealKey(secret))
	if err != nil {
		return nil, fmt.Errorf("failed to init cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to init GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// UnsealCredential decrypts and decodes a sealed bundle. Tampered or
// truncated blobs yield ErrSealedDataCorrupt.
func UnsealCredential(blob []byte, secret string) (*domain.CachedCredential, error) {
	block, err := aes.NewCipher(sealKey(secret))
	if err != nil {
		return nil, fmt.Errorf("failed to init cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to init GCM: %w", err)
	}

	if len(blob) < gcm.NonceSize() {
		return nil, ErrSealedDataCorrupt
	}
	nonce, ciphertext := blob[:gcm.NonceSize()], blob[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrSealedDataCorrupt
	}

	var cred domain.CachedCredential
	if err := json.Unmarshal(plaintext, &cred); err != nil {
		return nil, ErrSealedDataCorrupt
	}
	return &cred, nil
}
