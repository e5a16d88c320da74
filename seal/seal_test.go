package seal

import (
	"context"
	"crypto"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"example.com/ledgerseal/config"
	"example.com/ledgerseal/cryptoerr"
	"example.com/ledgerseal/suite"
	"example.com/ledgerseal/txpool"
)

type fixture struct {
	suite  *suite.Suite
	pool   *txpool.MemoryPool
	priv   crypto.PrivateKey
	sender string
}

func newFixture(t *testing.T, policy string) *fixture {
	t.Helper()

	cfg := config.Default()
	cfg.Merkle.OddPolicy = policy
	s, err := suite.New(cfg)
	require.NoError(t, err)

	priv, pub, err := s.Scheme.GenerateKey()
	require.NoError(t, err)
	sender, err := s.Encoder.Encode(pub)
	require.NoError(t, err)

	return &fixture{suite: s, pool: txpool.NewMemoryPool(), priv: priv, sender: sender}
}

func (f *fixture) add(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		tx := txpool.Transaction{
			ID:        fmt.Sprintf("t%d", i),
			Timestamp: int64(100 + i),
			Sender:    f.sender,
			Payload:   []byte(fmt.Sprintf("payload %d", i)),
		}
		require.NoError(t, SignTransaction(f.suite.Scheme, f.priv, &tx))
		require.NoError(t, f.pool.Add(context.Background(), tx))
	}
}

func TestSealDropPolicyMatchesOriginalRoots(t *testing.T) {
	f := newFixture(t, "drop")
	f.add(t, 7)

	reg := prometheus.NewRegistry()
	sealer, err := New(f.pool, f.suite, Options{BatchSize: 5, VerifySignatures: true, Registerer: reg})
	require.NoError(t, err)

	res, err := sealer.Seal(context.Background())
	require.NoError(t, err)

	h := f.suite.Hasher.Hash
	want := h([]byte(h([]byte("t0t1")) + h([]byte("t2t3"))))
	assert.Equal(t, want, res.Root)
	assert.Equal(t, 7, res.PoolCount)
	assert.Len(t, res.Transactions, 5)
	assert.Equal(t, "00000", res.Target)

	assert.Equal(t, 1.0, testutil.ToFloat64(sealer.metrics.roots))
	assert.Equal(t, 5.0, testutil.ToFloat64(sealer.metrics.transactions))
	assert.Equal(t, 0.0, testutil.ToFloat64(sealer.metrics.signatureFailures))

	n, err := f.pool.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n, "sealing must not change the pool")
}

func TestSealDuplicatePolicy(t *testing.T) {
	f := newFixture(t, "duplicate")
	f.add(t, 3)

	sealer, err := New(f.pool, f.suite, Options{BatchSize: 5})
	require.NoError(t, err)

	res, err := sealer.Seal(context.Background())
	require.NoError(t, err)

	h := f.suite.Hasher.Hash
	want := h([]byte(h([]byte("t0t1")) + h([]byte("t2t2"))))
	assert.Equal(t, want, res.Root)
}

func TestSealSingleTransaction(t *testing.T) {
	f := newFixture(t, "duplicate")
	f.add(t, 1)

	sealer, err := New(f.pool, f.suite, Options{BatchSize: 5, VerifySignatures: true})
	require.NoError(t, err)

	res, err := sealer.Seal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "t0", res.Root)
}

func TestSealEmptyPool(t *testing.T) {
	f := newFixture(t, "duplicate")

	sealer, err := New(f.pool, f.suite, Options{BatchSize: 5})
	require.NoError(t, err)

	_, err = sealer.Seal(context.Background())
	assert.ErrorIs(t, err, cryptoerr.ErrEmptyInput)
}

func TestSealRejectsTamperedTransaction(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	f := newFixture(t, "duplicate")
	f.add(t, 2)

	tx := txpool.Transaction{ID: "forged", Timestamp: 1, Sender: f.sender, Payload: []byte("pay mallory")}
	require.NoError(t, SignTransaction(f.suite.Scheme, f.priv, &tx))
	tx.Payload = []byte("pay mallory 1000")
	require.NoError(t, f.pool.Add(context.Background(), tx))

	sealer, err := New(f.pool, f.suite, Options{BatchSize: 5, VerifySignatures: true, Logger: zap.New(core)})
	require.NoError(t, err)

	_, err = sealer.Seal(context.Background())
	require.ErrorIs(t, err, ErrInvalidSignature)

	var invalid *InvalidSignatureError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "forged", invalid.ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(sealer.metrics.signatureFailures))
	assert.Equal(t, 1, logs.FilterMessage("transaction failed verification").Len())

	unchecked, err := New(f.pool, f.suite, Options{BatchSize: 5})
	require.NoError(t, err)
	_, err = unchecked.Seal(context.Background())
	assert.NoError(t, err)
}

func TestSealRejectsUndecodableSender(t *testing.T) {
	f := newFixture(t, "duplicate")
	require.NoError(t, f.pool.Add(context.Background(), txpool.Transaction{ID: "x", Sender: "!!!"}))

	sealer, err := New(f.pool, f.suite, Options{BatchSize: 5, VerifySignatures: true})
	require.NoError(t, err)

	_, err = sealer.Seal(context.Background())
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.ErrorIs(t, err, cryptoerr.ErrCryptoOperation)
}

func TestNewValidatesOptions(t *testing.T) {
	f := newFixture(t, "duplicate")

	_, err := New(f.pool, f.suite, Options{BatchSize: 0})
	assert.Error(t, err)

	reg := prometheus.NewRegistry()
	_, err = New(f.pool, f.suite, Options{BatchSize: 1, Registerer: reg})
	require.NoError(t, err)
	_, err = New(f.pool, f.suite, Options{BatchSize: 1, Registerer: reg})
	assert.Error(t, err, "duplicate registration")
}

func TestSignTransactionUnusableKey(t *testing.T) {
	f := newFixture(t, "duplicate")
	tx := txpool.Transaction{ID: "a"}
	err := SignTransaction(f.suite.Scheme, nil, &tx)
	assert.ErrorIs(t, err, cryptoerr.ErrSigning)
	assert.Nil(t, tx.Signature)
}
