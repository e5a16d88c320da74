package txpool

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryPool keeps pending transactions in a sorted slice. Snapshot reads
// happen under one read lock.
type MemoryPool struct {
	mu   sync.RWMutex
	txs  []Transaction
	byID map[string]struct{}
}

// NewMemoryPool returns an empty pool.
func NewMemoryPool() *MemoryPool {
	return &MemoryPool{byID: make(map[string]struct{})}
}

func (m *MemoryPool) Add(ctx context.Context, tx Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if tx.ID == "" {
		return ErrEmptyID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[tx.ID]; ok {
		return fmt.Errorf("%s: %w", tx.ID, ErrDuplicate)
	}

	i := sort.Search(len(m.txs), func(i int) bool { return less(&tx, &m.txs[i]) })
	m.txs = append(m.txs, Transaction{})
	copy(m.txs[i+1:], m.txs[i:])
	m.txs[i] = tx
	m.byID[tx.ID] = struct{}{}

	return nil
}

func (m *MemoryPool) Remove(ctx context.Context, ids ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := m.byID[id]; !ok {
			return fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		drop[id] = struct{}{}
	}

	kept := m.txs[:0]
	for _, tx := range m.txs {
		if _, ok := drop[tx.ID]; ok {
			delete(m.byID, tx.ID)
			continue
		}
		kept = append(kept, tx)
	}
	m.txs = kept

	return nil
}

func (m *MemoryPool) PeekEarliest(ctx context.Context, limit int) ([]Transaction, error) {
	s, err := m.Snapshot(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.Transactions, nil
}

func (m *MemoryPool) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.txs), nil
}

func (m *MemoryPool) Snapshot(ctx context.Context, limit int) (Snapshot, error) {
	if err := checkLimit(limit); err != nil {
		return Snapshot{}, err
	}
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	n := min(limit, len(m.txs))
	out := make([]Transaction, n)
	copy(out, m.txs[:n])

	return Snapshot{Transactions: out, Count: len(m.txs)}, nil
}

func (m *MemoryPool) Close() error { return nil }

var _ Store = (*MemoryPool)(nil)
