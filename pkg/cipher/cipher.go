// Package cipher provides the payload ciphers credential stores run
// on: AES-GCM for real deployments, a plain JSON codec for tests and
// local development.
package cipher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/scion/pkg/ports"
)

// ErrDecryptFailed reports that no configured key could open a
// ciphertext.
var ErrDecryptFailed = errors.New("decryption failed with all available keys")

// Plain is a cipher that stores payloads as clear JSON. It exists for
// tests and local development; nothing about it is secret.
type Plain struct{}

// NewPlain returns the clear JSON codec.
func NewPlain() Plain {
	return Plain{}
}

var _ ports.Cipher = Plain{}

func (Plain) Encrypt(data map[string]any) ([]byte, error) {
	return json.Marshal(data)
}

func (Plain) Decrypt(blob []byte) (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal(blob, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credential payload: %w", err)
	}
	return data, nil
}

// AESGCM encrypts credential payloads with AES-256-GCM. Keys are
// derived from passphrases, and old passphrases can stay registered as
// fallbacks for zero-downtime rotation: new data seals under the
// active key, reads try the active key first and then each fallback.
type AESGCM struct {
	active    []byte
	fallbacks [][]byte
}

// Option configures an AESGCM cipher.
type Option func(*AESGCM)

// WithFallbackKeys registers old passphrases that decryption may still
// need, in the order they should be tried.
func WithFallbackKeys(keys ...string) Option {
	return func(c *AESGCM) {
		for _, key := range keys {
			c.fallbacks = append(c.fallbacks, deriveKey(key))
		}
	}
}

// NewAESGCM creates a cipher sealing under the given passphrase.
func NewAESGCM(key string, opts ...Option) *AESGCM {
	c := &AESGCM{active: deriveKey(key)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ ports.Cipher = (*AESGCM)(nil)

func (c *AESGCM) Encrypt(data map[string]any) ([]byte, error) {
	plaintext, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal credential payload: %w", err)
	}
	return seal(plaintext, c.active)
}

func (c *AESGCM) Decrypt(blob []byte) (map[string]any, error) {
	plaintext, err := openWithRotation(blob, c.active, c.fallbacks)
	if err != nil {
		return nil, err
	}

	var data map[string]any
	if err := json.Unmarshal(plaintext, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credential payload: %w", err)
	}
	return data, nil
}

// deriveKey stretches a passphrase to the 32 bytes AES-256 needs.
func deriveKey(key string) []byte {
	sum := sha256.Sum256([]byte(key))
	return sum[:]
}

func seal(plaintext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func openWithRotation(ciphertext, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := open(ciphertext, activeKey); err == nil {
		return plain, nil
	}

	for _, key := range fallbackKeys {
		if plain, err := open(ciphertext, key); err == nil {
			return plain, nil
		}
	}

	return nil, ErrDecryptFailed
}

func open(ciphertext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	return gcm.Open(nil, nonce, ciphertext[gcm.NonceSize():], nil)
}
