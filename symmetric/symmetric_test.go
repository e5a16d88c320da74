package symmetric

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/ledgerseal/cryptoerr"
)

func ciphers(t *testing.T) []Cipher {
	t.Helper()
	var out []Cipher
	for _, name := range Names() {
		c, err := New(name)
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}

func TestRoundTrip(t *testing.T) {
	messages := [][]byte{
		{},
		[]byte("a"),
		[]byte("exactly sixteen!"),
		bytes.Repeat([]byte{0xAB}, 1000),
	}

	for _, c := range ciphers(t) {
		t.Run(c.Name(), func(t *testing.T) {
			key, err := GenerateKey(c)
			require.NoError(t, err)
			require.Len(t, key, c.KeySize())

			for _, msg := range messages {
				ct, err := c.Encrypt(msg, key)
				require.NoError(t, err)

				got, err := c.Decrypt(ct, key)
				require.NoError(t, err)
				assert.Equal(t, msg, got)
			}
		})
	}
}

func TestWrongKey(t *testing.T) {
	msg := []byte("transfer 10 coins to bob")

	for _, c := range ciphers(t) {
		t.Run(c.Name(), func(t *testing.T) {
			k1, err := GenerateKey(c)
			require.NoError(t, err)
			k2, err := GenerateKey(c)
			require.NoError(t, err)

			ct, err := c.Encrypt(msg, k1)
			require.NoError(t, err)

			got, err := c.Decrypt(ct, k2)
			if err != nil {
				assert.ErrorIs(t, err, cryptoerr.ErrDecryption)
				return
			}
			assert.NotEqual(t, msg, got)
		})
	}
}

func TestAuthenticatedModesAlwaysRejectWrongKey(t *testing.T) {
	for _, c := range []Cipher{NewSM4GCM(), NewChaCha20Poly1305()} {
		k1, err := GenerateKey(c)
		require.NoError(t, err)
		k2 := append([]byte(nil), k1...)
		k2[0] ^= 0x01

		ct, err := c.Encrypt([]byte("payload"), k1)
		require.NoError(t, err)

		_, err = c.Decrypt(ct, k2)
		assert.ErrorIs(t, err, cryptoerr.ErrDecryption, c.Name())
	}
}

func TestNonceIsFresh(t *testing.T) {
	c := NewSM4GCM()
	key, err := GenerateKey(c)
	require.NoError(t, err)

	a, err := c.Encrypt([]byte("same"), key)
	require.NoError(t, err)
	b, err := c.Encrypt([]byte("same"), key)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestBadKeyLength(t *testing.T) {
	for _, c := range ciphers(t) {
		_, err := c.Encrypt([]byte("x"), []byte("short"))
		assert.ErrorIs(t, err, cryptoerr.ErrCryptoOperation, c.Name())

		_, err = c.Decrypt("AAAA", []byte("short"))
		assert.ErrorIs(t, err, cryptoerr.ErrCryptoOperation, c.Name())
	}
}

func TestMalformedCiphertext(t *testing.T) {
	for _, c := range ciphers(t) {
		key, err := GenerateKey(c)
		require.NoError(t, err)

		for _, ct := range []string{"", "not base64!", "AAAA"} {
			_, err := c.Decrypt(ct, key)
			assert.ErrorIs(t, err, cryptoerr.ErrDecryption, "%s %q", c.Name(), ct)
		}
	}
}

func TestUnknownCipher(t *testing.T) {
	_, err := New("des")
	assert.ErrorIs(t, err, cryptoerr.ErrCryptoOperation)
}

func TestPadding(t *testing.T) {
	padded := pad([]byte("abc"), 16)
	require.Len(t, padded, 16)
	assert.Equal(t, byte(13), padded[15])

	got, ok := unpad(padded, 16)
	require.True(t, ok)
	assert.Equal(t, []byte("abc"), got)

	full := pad(make([]byte, 16), 16)
	assert.Len(t, full, 32)

	_, ok = unpad(append(make([]byte, 15), 0), 16)
	assert.False(t, ok)
	_, ok = unpad(append(make([]byte, 15), 17), 16)
	assert.False(t, ok)
}
