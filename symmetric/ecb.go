package symmetric

import (
	"bytes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"

	"github.com/tjfoc/gmsm/sm4"

	"example.com/ledgerseal/cryptoerr"
)

// ECB is SM4 in ECB mode with PKCS#7 padding, the layout produced by the
// original chain's payload encryption. Prefer SM4GCM for new data.
type ECB struct{}

// NewSM4ECB returns the legacy SM4/ECB/PKCS#7 cipher.
func NewSM4ECB() *ECB { return &ECB{} }

func (*ECB) Name() string { return SM4ECB }

func (*ECB) KeySize() int { return sm4Size }

// Encrypt pads msg and encrypts it block by block.
func (e *ECB) Encrypt(msg, key []byte) (string, error) {
	block, err := e.block(key)
	if err != nil {
		return "", err
	}

	buf := pad(msg, sm4Size)
	out := make([]byte, len(buf))
	for i := 0; i < len(buf); i += sm4Size {
		block.Encrypt(out[i:i+sm4Size], buf[i:i+sm4Size])
	}
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. A padding failure returns cryptoerr.ErrDecryption.
func (e *ECB) Decrypt(ciphertext string, key []byte) ([]byte, error) {
	block, err := e.block(key)
	if err != nil {
		return nil, err
	}

	buf, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%s: decode ciphertext: %v: %w", SM4ECB, err, cryptoerr.ErrDecryption)
	}
	if len(buf) == 0 || len(buf)%sm4Size != 0 {
		return nil, fmt.Errorf("%s: ciphertext is %d bytes: %w", SM4ECB, len(buf), cryptoerr.ErrDecryption)
	}

	out := make([]byte, len(buf))
	for i := 0; i < len(buf); i += sm4Size {
		block.Decrypt(out[i:i+sm4Size], buf[i:i+sm4Size])
	}

	msg, ok := unpad(out, sm4Size)
	if !ok {
		return nil, fmt.Errorf("%s: bad padding: %w", SM4ECB, cryptoerr.ErrDecryption)
	}
	return msg, nil
}

func (*ECB) block(key []byte) (cipher.Block, error) {
	if len(key) != sm4Size {
		return nil, fmt.Errorf("%s: key is %d bytes, want %d: %w", SM4ECB, len(key), sm4Size, cryptoerr.ErrCryptoOperation)
	}
	block, err := sm4.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", SM4ECB, err, cryptoerr.ErrCryptoOperation)
	}
	return block, nil
}

func pad(msg []byte, size int) []byte {
	n := size - len(msg)%size
	out := make([]byte, len(msg), len(msg)+n)
	copy(out, msg)
	return append(out, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(buf []byte, size int) ([]byte, bool) {
	n := int(buf[len(buf)-1])
	if n == 0 || n > size || n > len(buf) {
		return nil, false
	}
	for _, b := range buf[len(buf)-n:] {
		if int(b) != n {
			return nil, false
		}
	}
	return buf[:len(buf)-n], true
}
