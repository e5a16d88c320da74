package signature

import (
	"crypto"
	"crypto/rand"
	"math/big"

	"github.com/tjfoc/gmsm/sm2"
	"github.com/tjfoc/gmsm/x509"
)

// SM2Scheme signs with SM2 under the default user ID. Public keys serialize
// as PKIX DER, private keys as unencrypted PKCS#8 DER.
type SM2Scheme struct{}

// NewSM2 returns the SM2 scheme.
func NewSM2() SM2Scheme { return SM2Scheme{} }

func (SM2Scheme) Name() string { return SM2 }

func (SM2Scheme) GenerateKey() (crypto.PrivateKey, crypto.PublicKey, error) {
	priv, err := sm2.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, keyError(SM2, "generate key: %v", err)
	}
	return priv, &priv.PublicKey, nil
}

func (SM2Scheme) Sign(priv crypto.PrivateKey, msg []byte) (sig []byte, err error) {
	key, ok := priv.(*sm2.PrivateKey)
	if !ok || key == nil {
		return nil, signingError(SM2, "private key is %T", priv)
	}
	if key.D == nil || key.Curve == nil || key.X == nil || key.Y == nil {
		return nil, signingError(SM2, "private key is not initialized")
	}
	// SM2 inverts 1+d, so d must lie in [1, n-2].
	maxD := new(big.Int).Sub(key.Curve.Params().N, big.NewInt(2))
	if key.D.Sign() <= 0 || key.D.Cmp(maxD) > 0 {
		return nil, signingError(SM2, "private scalar out of range")
	}

	defer func() {
		if r := recover(); r != nil {
			sig, err = nil, signingError(SM2, "%v", r)
		}
	}()
	sig, err = key.Sign(rand.Reader, msg, nil)
	if err != nil {
		return nil, signingError(SM2, "%v", err)
	}
	return sig, nil
}

func (SM2Scheme) PublicKey(priv crypto.PrivateKey) (crypto.PublicKey, error) {
	key, ok := priv.(*sm2.PrivateKey)
	if !ok || key == nil || key.X == nil || key.Y == nil {
		return nil, keyError(SM2, "private key is %T", priv)
	}
	return &key.PublicKey, nil
}

func (SM2Scheme) Verify(pub crypto.PublicKey, msg, sig []byte) (ok bool) {
	key, isSM2 := pub.(*sm2.PublicKey)
	if !isSM2 || key == nil || key.Curve == nil || key.X == nil || key.Y == nil || len(sig) == 0 {
		return false
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return key.Verify(msg, sig)
}

func (SM2Scheme) MarshalPublicKey(pub crypto.PublicKey) ([]byte, error) {
	key, ok := pub.(*sm2.PublicKey)
	if !ok || key == nil {
		return nil, keyError(SM2, "public key is %T", pub)
	}
	der, err := x509.MarshalSm2PublicKey(key)
	if err != nil {
		return nil, keyError(SM2, "marshal public key: %v", err)
	}
	return der, nil
}

func (SM2Scheme) ParsePublicKey(der []byte) (crypto.PublicKey, error) {
	key, err := x509.ParseSm2PublicKey(der)
	if err != nil {
		return nil, keyError(SM2, "parse public key: %v", err)
	}
	return key, nil
}

func (SM2Scheme) MarshalPrivateKey(priv crypto.PrivateKey) ([]byte, error) {
	key, ok := priv.(*sm2.PrivateKey)
	if !ok || key == nil {
		return nil, keyError(SM2, "private key is %T", priv)
	}
	der, err := x509.MarshalSm2UnecryptedPrivateKey(key)
	if err != nil {
		return nil, keyError(SM2, "marshal private key: %v", err)
	}
	return der, nil
}

func (SM2Scheme) ParsePrivateKey(der []byte) (crypto.PrivateKey, error) {
	key, err := x509.ParsePKCS8UnecryptedPrivateKey(der)
	if err != nil {
		return nil, keyError(SM2, "parse private key: %v", err)
	}
	return key, nil
}
