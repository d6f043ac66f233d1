// Package cryptox seals small secrets (cookie values) at rest with a key
// derived from a user passphrase.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	saltSize = 16
	keySize  = 32
)

// ErrMalformed is returned by Open when the input is too short to hold the
// salt, nonce and tag.
var ErrMalformed = errors.New("malformed sealed value")

// DeriveKey stretches a passphrase into a 256-bit AES key with argon2id.
func DeriveKey(passphrase []byte, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, keySize)
}

// Sealer encrypts values with AES-GCM. Every Seal call picks a fresh salt and
// nonce, so the output layout is salt | nonce | ciphertext+tag.
type Sealer struct {
	passphrase []byte
}

// NewSealer returns a Sealer for the given passphrase. The slice is copied.
func NewSealer(passphrase []byte) *Sealer {
	return &Sealer{passphrase: append([]byte(nil), passphrase...)}
}

func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	salt := common.GenerateRandByteArray(saltSize)
	key := DeriveKey(s.passphrase, salt)
	defer common.WipeByteArray(key)

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())

	out := make([]byte, 0, saltSize+len(nonce)+len(plaintext)+aesgcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return aesgcm.Seal(out, nonce, plaintext, nil), nil
}

func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < saltSize {
		return nil, ErrMalformed
	}
	salt := sealed[:saltSize]
	key := DeriveKey(s.passphrase, salt)
	defer common.WipeByteArray(key)

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	rest := sealed[saltSize:]
	if len(rest) < aesgcm.NonceSize()+aesgcm.Overhead() {
		return nil, ErrMalformed
	}
	nonce, ciphertext := rest[:aesgcm.NonceSize()], rest[aesgcm.NonceSize():]

	return aesgcm.Open(nil, nonce, ciphertext, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
