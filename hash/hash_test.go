package hash

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/ledgerseal/cryptoerr"
)

func TestKnownVectors(t *testing.T) {
	cases := []struct {
		algo string
		msg  string
		want string
	}{
		{SM3, "abc", "66c7f0f462eeedd9d1f2d46bdc10e4e24167c4875cf2f7a2297da02b8f4ba8e0"},
		{SHA256, "abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{SHA3256, "abc", "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532"},
		{Keccak256, "", "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"},
		{BLAKE3, "", "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"},
	}

	for _, tc := range cases {
		t.Run(tc.algo, func(t *testing.T) {
			h, err := New(tc.algo)
			require.NoError(t, err)
			assert.Equal(t, tc.want, h.Hash([]byte(tc.msg)))
			assert.Equal(t, tc.algo, h.Name())
		})
	}
}

func TestDeterministicFixedLength(t *testing.T) {
	for _, name := range Names() {
		h, err := New(name)
		require.NoError(t, err)

		a := h.Hash([]byte("ledger"))
		b := h.Hash([]byte("ledger"))
		assert.Equal(t, a, b, name)
		assert.Len(t, h.Hash(nil), len(a), name)
		assert.Len(t, HashString(h, a+b), len(a), name)
		assert.NotEqual(t, a, h.Hash([]byte("ledgeR")), name)
	}
}

func TestUnknownAlgorithm(t *testing.T) {
	_, err := New("md5")
	assert.ErrorIs(t, err, cryptoerr.ErrCryptoOperation)
}

func TestDefaultIsSM3(t *testing.T) {
	assert.Equal(t, SM3, Default().Name())
}

func TestConcurrentUse(t *testing.T) {
	h := Default()
	want := h.Hash([]byte("tx"))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, h.Hash([]byte("tx")))
		}()
	}
	wg.Wait()
}
