/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package transform

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/suparena/persist/errors"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// Cipher encrypts and decrypts byte blobs. Open(Seal(b)) must equal b.
type Cipher interface {
	Name() string
	Seal(plaintext []byte) ([]byte, error)
	Open(ciphertext []byte) ([]byte, error)
}

// aeadCipher seals with a fresh random nonce that is prepended to the output.
type aeadCipher struct {
	name string
	aead cipher.AEAD
}

// NewAESGCM returns an AES-GCM cipher. key must be 16, 24 or 32 bytes.
func NewAESGCM(key []byte) (Cipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.NewValidationError("key", err.Error())
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.NewValidationError("key", err.Error())
	}
	return &aeadCipher{name: "aes-gcm", aead: aead}, nil
}

// NewXChaCha20Poly1305 returns an XChaCha20-Poly1305 cipher. key must be 32 bytes.
func NewXChaCha20Poly1305(key []byte) (Cipher, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, errors.NewValidationError("key", err.Error())
	}
	return &aeadCipher{name: "xchacha20poly1305", aead: aead}, nil
}

func (c *aeadCipher) Name() string {
	return c.name
}

func (c *aeadCipher) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+len(plaintext)+c.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.NewTransformError(c.name, "seal", err)
	}
	return c.aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (c *aeadCipher) Open(ciphertext []byte) ([]byte, error) {
	ns := c.aead.NonceSize()
	if len(ciphertext) < ns+c.aead.Overhead() {
		return nil, errors.NewTransformError(c.name, "open", fmt.Errorf("ciphertext too short: %d bytes", len(ciphertext)))
	}
	plaintext, err := c.aead.Open(nil, ciphertext[:ns], ciphertext[ns:], nil)
	if err != nil {
		return nil, errors.NewTransformError(c.name, "open", err)
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}

// KeyFromSecret derives a size-byte key from secret using HKDF-SHA256.
// The info label separates keys derived for different purposes.
func KeyFromSecret(secret []byte, info string, size int) ([]byte, error) {
	if len(secret) == 0 {
		return nil, errors.NewValidationError("secret", "must not be empty")
	}
	key := make([]byte, size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(info)), key); err != nil {
		return nil, errors.NewTransformError("hkdf", "derive", err)
	}
	return key, nil
}
