// Package symmetric encrypts and decrypts payloads under a caller-supplied
// key. No key derivation or key storage happens here.
//
// Decrypting under a mismatched key returns cryptoerr.ErrDecryption. The
// authenticated modes always detect it; the legacy ECB mode detects it through
// the PKCS#7 padding check, which a wrong key passes roughly once in 256 tries
// and then yields bytes that differ from the plaintext.
package symmetric

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"sort"

	"github.com/tjfoc/gmsm/sm4"
	"golang.org/x/crypto/chacha20poly1305"

	"example.com/ledgerseal/cryptoerr"
)

// sm4Size is both the SM4 key size and block size.
const sm4Size = 16

// Algorithm names accepted by New.
const (
	SM4GCM           = "sm4-gcm"
	SM4ECB           = "sm4-ecb"
	ChaCha20Poly1305 = "chacha20-poly1305"
)

// Cipher performs keyed encryption with text-safe output.
type Cipher interface {
	Encrypt(msg, key []byte) (string, error)
	Decrypt(ciphertext string, key []byte) ([]byte, error)
	KeySize() int
	Name() string
}

// New returns the cipher registered under name.
func New(name string) (Cipher, error) {
	switch name {
	case SM4GCM:
		return NewSM4GCM(), nil
	case SM4ECB:
		return NewSM4ECB(), nil
	case ChaCha20Poly1305:
		return NewChaCha20Poly1305(), nil
	}
	return nil, fmt.Errorf("unknown cipher %q: %w", name, cryptoerr.ErrCryptoOperation)
}

// Names lists the supported ciphers in sorted order.
func Names() []string {
	names := []string{SM4GCM, SM4ECB, ChaCha20Poly1305}
	sort.Strings(names)
	return names
}

// GenerateKey returns a random key sized for c.
func GenerateKey(c Cipher) ([]byte, error) {
	key := make([]byte, c.KeySize())
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("read random key: %w", err)
	}
	return key, nil
}

// AEAD seals with a fresh random nonce that is prepended to the ciphertext.
type AEAD struct {
	name    string
	keySize int
	newAEAD func(key []byte) (cipher.AEAD, error)
	rand    io.Reader
}

// NewSM4GCM returns SM4 in GCM mode with 16-byte keys.
func NewSM4GCM() *AEAD {
	return &AEAD{
		name:    SM4GCM,
		keySize: sm4Size,
		newAEAD: func(key []byte) (cipher.AEAD, error) {
			block, err := sm4.NewCipher(key)
			if err != nil {
				return nil, err
			}
			return cipher.NewGCM(block)
		},
		rand: rand.Reader,
	}
}

// NewChaCha20Poly1305 returns ChaCha20-Poly1305 with 32-byte keys.
func NewChaCha20Poly1305() *AEAD {
	return &AEAD{
		name:    ChaCha20Poly1305,
		keySize: chacha20poly1305.KeySize,
		newAEAD: chacha20poly1305.New,
		rand:    rand.Reader,
	}
}

func (a *AEAD) Name() string { return a.name }

func (a *AEAD) KeySize() int { return a.keySize }

func (a *AEAD) aead(key []byte) (cipher.AEAD, error) {
	if len(key) != a.keySize {
		return nil, fmt.Errorf("%s: key is %d bytes, want %d: %w", a.name, len(key), a.keySize, cryptoerr.ErrCryptoOperation)
	}
	aead, err := a.newAEAD(key)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", a.name, err, cryptoerr.ErrCryptoOperation)
	}
	return aead, nil
}

// Encrypt returns base64(nonce || sealed message).
func (a *AEAD) Encrypt(msg, key []byte) (string, error) {
	aead, err := a.aead(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(msg)+aead.Overhead())
	if _, err := io.ReadFull(a.rand, nonce); err != nil {
		return "", fmt.Errorf("%s: read nonce: %v: %w", a.name, err, cryptoerr.ErrCryptoOperation)
	}

	sealed := aead.Seal(nonce, nonce, msg, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Tag failures return cryptoerr.ErrDecryption.
func (a *AEAD) Decrypt(ciphertext string, key []byte) ([]byte, error) {
	aead, err := a.aead(key)
	if err != nil {
		return nil, err
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%s: decode ciphertext: %v: %w", a.name, err, cryptoerr.ErrDecryption)
	}
	if len(raw) < aead.NonceSize()+aead.Overhead() {
		return nil, fmt.Errorf("%s: ciphertext too short: %w", a.name, cryptoerr.ErrDecryption)
	}

	nonce, sealed := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	msg, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.name, cryptoerr.ErrDecryption)
	}
	if msg == nil {
		msg = []byte{}
	}
	return msg, nil
}

var (
	_ Cipher = (*AEAD)(nil)
	_ Cipher = (*ECB)(nil)
)
