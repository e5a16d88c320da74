// Package seal summarizes the earliest pending transactions for block
// assembly. It reads one consistent pool snapshot, optionally authenticates
// each transaction, and reduces the transaction IDs to a Merkle root.
package seal

import (
	"context"
	"crypto"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"example.com/ledgerseal/signature"
	"example.com/ledgerseal/suite"
	"example.com/ledgerseal/txpool"
)

// ErrInvalidSignature matches any *InvalidSignatureError.
var ErrInvalidSignature = errors.New("invalid transaction signature")

// InvalidSignatureError names the pooled transaction that failed
// authentication.
type InvalidSignatureError struct {
	ID  string
	Err error // sender key decode failure, nil for a plain mismatch
}

func (e *InvalidSignatureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transaction %s: %v: %v", e.ID, ErrInvalidSignature, e.Err)
	}
	return fmt.Sprintf("transaction %s: %v", e.ID, ErrInvalidSignature)
}

func (e *InvalidSignatureError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidSignature, e.Err}
	}
	return []error{ErrInvalidSignature}
}

// Result is what block assembly needs from one sealing pass.
type Result struct {
	Root         string
	Transactions []txpool.Transaction
	// PoolCount is the pool size at the moment of the snapshot.
	PoolCount int
	// Target is the proof-of-work prefix a block hash must carry.
	Target string
}

// Options configures a Sealer.
type Options struct {
	BatchSize        int
	VerifySignatures bool
	Logger           *zap.Logger
	// Registerer receives the sealer metrics; nil leaves them unregistered.
	Registerer prometheus.Registerer
}

// Sealer is safe for concurrent use; each Seal call takes its own snapshot.
type Sealer struct {
	pool      txpool.Pool
	suite     *suite.Suite
	batchSize int
	verify    bool
	logger    *zap.Logger
	metrics   *Metrics
}

// New returns a sealer reading from pool.
func New(pool txpool.Pool, s *suite.Suite, opts Options) (*Sealer, error) {
	if opts.BatchSize < 1 {
		return nil, fmt.Errorf("batch size %d must be at least 1", opts.BatchSize)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	m, err := NewMetrics(opts.Registerer)
	if err != nil {
		return nil, err
	}

	return &Sealer{
		pool:      pool,
		suite:     s,
		batchSize: opts.BatchSize,
		verify:    opts.VerifySignatures,
		logger:    opts.Logger,
		metrics:   m,
	}, nil
}

// Seal snapshots the earliest transactions and computes their Merkle root.
// An empty pool returns cryptoerr.ErrEmptyInput; a transaction that fails
// verification returns an *InvalidSignatureError and no root.
func (s *Sealer) Seal(ctx context.Context) (*Result, error) {
	snap, err := s.pool.Snapshot(ctx, s.batchSize)
	if err != nil {
		return nil, fmt.Errorf("snapshot pool: %w", err)
	}

	if s.verify {
		for i := range snap.Transactions {
			if err := s.authenticate(&snap.Transactions[i]); err != nil {
				s.metrics.signatureFailures.Inc()
				s.logger.Warn("transaction failed verification", zap.String("id", snap.Transactions[i].ID), zap.Error(err))
				return nil, err
			}
		}
	}

	start := time.Now()
	root, err := s.suite.Merkle.Root(snap.IDs())
	if err != nil {
		return nil, fmt.Errorf("merkle root: %w", err)
	}
	s.metrics.rootDuration.Observe(time.Since(start).Seconds())
	s.metrics.roots.Inc()
	s.metrics.transactions.Add(float64(len(snap.Transactions)))

	s.logger.Info("transactions sealed",
		zap.String("root", root),
		zap.Int("transactions", len(snap.Transactions)),
		zap.Int("pool_count", snap.Count),
		zap.String("odd_policy", s.suite.Merkle.Policy().String()),
	)

	return &Result{
		Root:         root,
		Transactions: snap.Transactions,
		PoolCount:    snap.Count,
		Target:       s.suite.PoW.Target(),
	}, nil
}

func (s *Sealer) authenticate(tx *txpool.Transaction) error {
	pub, err := s.suite.Decoder.DecodePublic(tx.Sender)
	if err != nil {
		return &InvalidSignatureError{ID: tx.ID, Err: err}
	}
	if !s.suite.Scheme.Verify(pub, tx.SigningBytes(), tx.Signature) {
		return &InvalidSignatureError{ID: tx.ID}
	}
	return nil
}

// SignTransaction signs tx in place. tx.Sender must already hold the encoded
// public key matching priv.
func SignTransaction(scheme signature.Scheme, priv crypto.PrivateKey, tx *txpool.Transaction) error {
	sig, err := scheme.Sign(priv, tx.SigningBytes())
	if err != nil {
		return fmt.Errorf("sign transaction %s: %w", tx.ID, err)
	}
	tx.Signature = sig
	return nil
}
