// Package cryptox seals small values (tokens, cached profile data) before
// they are written to the local store.
//
// Keys are derived with HKDF-SHA256 from a per-installation secret, so a
// copied database file is useless without the secret file next to it.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/movieclient/internal/common"
	"github.com/dmitrijs2005/movieclient/internal/filex"
	"golang.org/x/crypto/hkdf"
)

// SecretSize is the length of a freshly generated installation secret.
const SecretSize = 32

// ErrShortCiphertext is returned by Open when the input cannot even hold a nonce.
var ErrShortCiphertext = errors.New("ciphertext too short")

// Sealer encrypts and authenticates values with AES-256-GCM.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives an AES-256 key from secret and info and returns a
// Sealer using it. Different info strings give independent keys.
func NewSealer(secret []byte, info string) (*Sealer, error) {
	if len(secret) == 0 {
		return nil, errors.New("empty secret")
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	defer common.WipeByteArray(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Sealer{aead: aead}, nil
}

// Seal returns nonce||ciphertext for plaintext.
func (s *Sealer) Seal(plaintext []byte) []byte {
	nonce := common.GenerateRandByteArray(s.aead.NonceSize())
	return s.aead.Seal(nonce, nonce, plaintext, nil)
}

// Open reverses Seal. Tampered or foreign data yields an error wrapping
// common.ErrCorruptedValue.
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	ns := s.aead.NonceSize()
	if len(sealed) < ns {
		return nil, fmt.Errorf("%w: %w", common.ErrCorruptedValue, ErrShortCiphertext)
	}
	plaintext, err := s.aead.Open(nil, sealed[:ns], sealed[ns:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrCorruptedValue, err)
	}
	return plaintext, nil
}

// LoadOrCreateSecret reads the installation secret at path, creating a new
// random one on first use.
func LoadOrCreateSecret(path string) ([]byte, error) {
	secret, err := filex.ReadOrCreate(path, func() []byte {
		return common.GenerateRandByteArray(SecretSize)
	})
	if err != nil {
		return nil, err
	}
	if len(secret) < 16 {
		return nil, fmt.Errorf("secret at %s is too short (%d bytes)", path, len(secret))
	}
	return secret, nil
}
