// Package keyenc renders key material as transportable text. Encoding is one
// way; reconstructing a key is a separate, explicit Decode call bound to the
// signature scheme that owns the key format.
package keyenc

import (
	"crypto"
	"encoding/base64"
	"fmt"

	"github.com/mr-tron/base58"

	"example.com/ledgerseal/cryptoerr"
	"example.com/ledgerseal/signature"
)

// Text form names accepted by New.
const (
	Base64 = "base64"
	Base58 = "base58"
)

type textForm struct {
	encode func([]byte) string
	decode func(string) ([]byte, error)
}

var forms = map[string]textForm{
	Base64: {base64.StdEncoding.EncodeToString, base64.StdEncoding.DecodeString},
	Base58: {base58.Encode, base58.Decode},
}

// Encoder turns keys into text.
type Encoder struct {
	name string
	form textForm
}

// New returns an encoder using the named text form.
func New(name string) (*Encoder, error) {
	f, ok := forms[name]
	if !ok {
		return nil, fmt.Errorf("unknown key encoding %q: %w", name, cryptoerr.ErrCryptoOperation)
	}
	return &Encoder{name: name, form: f}, nil
}

// Default returns the base64 encoder.
func Default() *Encoder {
	e, _ := New(Base64)
	return e
}

// Name returns the text form.
func (e *Encoder) Name() string { return e.name }

// Encode serializes key and renders it as text. key is a symmetric []byte or
// any public or private key of a supported signature scheme.
func (e *Encoder) Encode(key any) (string, error) {
	raw, err := signature.KeyBytes(key)
	if err != nil {
		return "", err
	}
	return e.form.encode(raw), nil
}

// Decoder reconstructs keys from Encoder output.
type Decoder struct {
	form   textForm
	scheme signature.Scheme
}

// NewDecoder pairs a text form with the scheme that parses the key bytes.
func NewDecoder(name string, scheme signature.Scheme) (*Decoder, error) {
	f, ok := forms[name]
	if !ok {
		return nil, fmt.Errorf("unknown key encoding %q: %w", name, cryptoerr.ErrCryptoOperation)
	}
	return &Decoder{form: f, scheme: scheme}, nil
}

// DecodeBytes reverses the text form alone, for blobs such as signatures
// that are not keys.
func (d *Decoder) DecodeBytes(s string) ([]byte, error) {
	raw, err := d.form.decode(s)
	if err != nil {
		return nil, fmt.Errorf("decode text: %v: %w", err, cryptoerr.ErrCryptoOperation)
	}
	return raw, nil
}

// DecodeSymmetric returns the raw key bytes.
func (d *Decoder) DecodeSymmetric(s string) ([]byte, error) {
	return d.DecodeBytes(s)
}

// DecodePublic parses an encoded public key.
func (d *Decoder) DecodePublic(s string) (crypto.PublicKey, error) {
	raw, err := d.DecodeBytes(s)
	if err != nil {
		return nil, err
	}
	return d.scheme.ParsePublicKey(raw)
}

// DecodePrivate parses an encoded private key.
func (d *Decoder) DecodePrivate(s string) (crypto.PrivateKey, error) {
	raw, err := d.DecodeBytes(s)
	if err != nil {
		return nil, err
	}
	return d.scheme.ParsePrivateKey(raw)
}
