package signature

import (
	"crypto"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	sha256 "github.com/minio/sha256-simd"
)

const secp256k1PrivateKeyLen = 32

// Secp256k1Scheme signs the SHA-256 of the message with ECDSA over
// secp256k1. Signatures are DER; public keys serialize compressed and private
// keys as their 32-byte scalar.
type Secp256k1Scheme struct{}

// NewSecp256k1 returns the secp256k1 scheme.
func NewSecp256k1() Secp256k1Scheme { return Secp256k1Scheme{} }

func (Secp256k1Scheme) Name() string { return Secp256k1 }

func (Secp256k1Scheme) GenerateKey() (crypto.PrivateKey, crypto.PublicKey, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, nil, keyError(Secp256k1, "generate key: %v", err)
	}
	return priv, priv.PubKey(), nil
}

func (Secp256k1Scheme) Sign(priv crypto.PrivateKey, msg []byte) ([]byte, error) {
	key, ok := priv.(*btcec.PrivateKey)
	if !ok || key == nil {
		return nil, signingError(Secp256k1, "private key is %T", priv)
	}
	if key.Key.IsZero() {
		return nil, signingError(Secp256k1, "private key is zero")
	}

	digest := sha256.Sum256(msg)
	return btcecdsa.Sign(key, digest[:]).Serialize(), nil
}

func (Secp256k1Scheme) PublicKey(priv crypto.PrivateKey) (crypto.PublicKey, error) {
	key, ok := priv.(*btcec.PrivateKey)
	if !ok || key == nil || key.Key.IsZero() {
		return nil, keyError(Secp256k1, "private key is %T", priv)
	}
	return key.PubKey(), nil
}

func (Secp256k1Scheme) Verify(pub crypto.PublicKey, msg, sig []byte) (ok bool) {
	key, isSecp := pub.(*btcec.PublicKey)
	if !isSecp || key == nil {
		return false
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	parsed, err := btcecdsa.ParseDERSignature(sig)
	if err != nil {
		return false
	}
	digest := sha256.Sum256(msg)
	return parsed.Verify(digest[:], key)
}

func (Secp256k1Scheme) MarshalPublicKey(pub crypto.PublicKey) ([]byte, error) {
	key, ok := pub.(*btcec.PublicKey)
	if !ok || key == nil {
		return nil, keyError(Secp256k1, "public key is %T", pub)
	}
	return key.SerializeCompressed(), nil
}

func (Secp256k1Scheme) ParsePublicKey(der []byte) (crypto.PublicKey, error) {
	key, err := btcec.ParsePubKey(der)
	if err != nil {
		return nil, keyError(Secp256k1, "parse public key: %v", err)
	}
	return key, nil
}

func (Secp256k1Scheme) MarshalPrivateKey(priv crypto.PrivateKey) ([]byte, error) {
	key, ok := priv.(*btcec.PrivateKey)
	if !ok || key == nil {
		return nil, keyError(Secp256k1, "private key is %T", priv)
	}
	return key.Serialize(), nil
}

func (Secp256k1Scheme) ParsePrivateKey(der []byte) (crypto.PrivateKey, error) {
	if len(der) != secp256k1PrivateKeyLen {
		return nil, keyError(Secp256k1, "private key is %d bytes, want %d", len(der), secp256k1PrivateKeyLen)
	}
	key, _ := btcec.PrivKeyFromBytes(der)
	if key.Key.IsZero() {
		return nil, keyError(Secp256k1, "private key is zero")
	}
	return key, nil
}
