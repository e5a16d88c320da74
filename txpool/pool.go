// Package txpool defines the read contract the sealer needs from the pending
// transaction pool, together with an in-memory and a bolt-backed store.
package txpool

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrDuplicate    = errors.New("transaction already pooled")
	ErrNotFound     = errors.New("transaction not found")
	ErrInvalidLimit = errors.New("limit must not be negative")
	ErrEmptyID      = errors.New("transaction id is empty")
)

// Snapshot is a point-in-time read of the pool: the earliest transactions
// and the exact pool size as of the same instant.
type Snapshot struct {
	Transactions []Transaction
	Count        int
}

// IDs returns the snapshot's transaction identifiers in pool order.
func (s Snapshot) IDs() []string {
	return IDs(s.Transactions)
}

// Pool is the read side of a transaction pool, ordered by ascending
// timestamp. None of the methods change the pool.
//
// Snapshot must be atomic: the transactions and the count it returns must
// come from one consistent view, unaffected by concurrent Add or Remove.
// A root computed over a torn read can silently diverge from the set of
// transactions actually included in the block.
type Pool interface {
	PeekEarliest(ctx context.Context, limit int) ([]Transaction, error)
	Count(ctx context.Context) (int, error)
	Snapshot(ctx context.Context, limit int) (Snapshot, error)
}

// Store is a Pool that also accepts and removes transactions. Remove is
// all-or-nothing: an unknown ID fails the whole call with ErrNotFound, and a
// repeated ID is removed once.
type Store interface {
	Pool
	Add(ctx context.Context, tx Transaction) error
	Remove(ctx context.Context, ids ...string) error
	Close() error
}

func checkLimit(limit int) error {
	if limit < 0 {
		return fmt.Errorf("limit %d: %w", limit, ErrInvalidLimit)
	}
	return nil
}
