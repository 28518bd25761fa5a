// Package secrets seals and opens credential values kept in config or the
// environment.
//
// A sealed value looks like "enc:<base64>" and carries its own salt and nonce.
// The key is derived from a passphrase with PBKDF2 and values are encrypted
// with AES-256-GCM. Plain values pass through Reveal unchanged.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Prefix marks a sealed value
const Prefix = "enc:"

const (
	saltSize   = 16
	iterations = 100000
	keySize    = 32 // AES-256
)

var (
	// ErrNoPassphrase is returned when a sealed value is found but no passphrase is set
	ErrNoPassphrase = errors.New("sealed value found but no secret key is configured")
	// ErrMalformed is returned for values that carry the prefix but cannot be decoded
	ErrMalformed = errors.New("malformed sealed value")
)

// Sealer encrypts and decrypts values with a passphrase
type Sealer struct {
	passphrase []byte
}

// NewSealer creates a Sealer. An empty passphrase returns nil, which Reveal
// treats as "no key configured".
func NewSealer(passphrase string) *Sealer {
	if passphrase == "" {
		return nil
	}
	return &Sealer{passphrase: []byte(passphrase)}
}

func (s *Sealer) gcm(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(s.passphrase, salt, iterations, keySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext and returns it with the enc: prefix
func (s *Sealer) Seal(plaintext string) (string, error) {
	if s == nil {
		return "", ErrNoPassphrase
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	gcm, err := s.gcm(salt)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	out := append(salt, nonce...)
	out = gcm.Seal(out, nonce, []byte(plaintext), nil)
	return Prefix + base64.StdEncoding.EncodeToString(out), nil
}

// Open decrypts a value produced by Seal
func (s *Sealer) Open(sealed string) (string, error) {
	if s == nil {
		return "", ErrNoPassphrase
	}
	if !IsSealed(sealed) {
		return "", ErrMalformed
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(sealed, Prefix))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(data) < saltSize {
		return "", ErrMalformed
	}

	salt, rest := data[:saltSize], data[saltSize:]
	gcm, err := s.gcm(salt)
	if err != nil {
		return "", err
	}
	if len(rest) < gcm.NonceSize() {
		return "", ErrMalformed
	}

	nonce, ciphertext := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("decrypting value: %w", err)
	}
	return string(plaintext), nil
}

// IsSealed reports whether v carries the enc: prefix
func IsSealed(v string) bool {
	return strings.HasPrefix(v, Prefix)
}

// Reveal returns v unchanged unless it is sealed, in which case it is opened
// with s.
func Reveal(s *Sealer, v string) (string, error) {
	if !IsSealed(v) {
		return v, nil
	}
	return s.Open(v)
}
