// Package signature signs and verifies messages with an asymmetric scheme.
//
// Keys are the concrete types of the backing library (*sm2.PrivateKey,
// *btcec.PrivateKey, ...) passed as crypto.PrivateKey and crypto.PublicKey.
// Sign fails with cryptoerr.ErrSigning on an unusable key. Verify never fails:
// any malformed input or mismatch reports false.
package signature

import (
	"crypto"
	"fmt"
	"sort"

	"example.com/ledgerseal/cryptoerr"
)

// Scheme names accepted by New.
const (
	SM2       = "sm2"
	Secp256k1 = "secp256k1"
)

// Scheme is one signature algorithm together with its key serialization.
type Scheme interface {
	Name() string
	GenerateKey() (crypto.PrivateKey, crypto.PublicKey, error)
	Sign(priv crypto.PrivateKey, msg []byte) ([]byte, error)
	Verify(pub crypto.PublicKey, msg, sig []byte) bool
	// PublicKey returns the public half of priv.
	PublicKey(priv crypto.PrivateKey) (crypto.PublicKey, error)

	MarshalPublicKey(pub crypto.PublicKey) ([]byte, error)
	ParsePublicKey(der []byte) (crypto.PublicKey, error)
	MarshalPrivateKey(priv crypto.PrivateKey) ([]byte, error)
	ParsePrivateKey(der []byte) (crypto.PrivateKey, error)
}

// New returns the scheme registered under name.
func New(name string) (Scheme, error) {
	switch name {
	case SM2:
		return NewSM2(), nil
	case Secp256k1:
		return NewSecp256k1(), nil
	}
	return nil, fmt.Errorf("unknown signature scheme %q: %w", name, cryptoerr.ErrCryptoOperation)
}

// Names lists the supported schemes in sorted order.
func Names() []string {
	names := []string{SM2, Secp256k1}
	sort.Strings(names)
	return names
}

// KeyBytes serializes any key type known to a supported scheme. Symmetric
// keys ([]byte) are returned as-is.
func KeyBytes(key any) ([]byte, error) {
	if raw, ok := key.([]byte); ok {
		return raw, nil
	}
	for _, name := range Names() {
		s, _ := New(name)
		if b, err := s.MarshalPublicKey(key); err == nil {
			return b, nil
		}
		if b, err := s.MarshalPrivateKey(key); err == nil {
			return b, nil
		}
	}
	return nil, fmt.Errorf("unsupported key type %T: %w", key, cryptoerr.ErrCryptoOperation)
}

func signingError(scheme, format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w", scheme, fmt.Sprintf(format, args...), cryptoerr.ErrSigning)
}

func keyError(scheme, format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w", scheme, fmt.Sprintf(format, args...), cryptoerr.ErrCryptoOperation)
}
