package txpool

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()

	bp, err := OpenBoltPool(filepath.Join(t.TempDir(), "pool.db"), 0, nil)
	require.NoError(t, err)
	t.Cleanup(func() { bp.Close() })

	return map[string]Store{
		"memory": NewMemoryPool(),
		"bolt":   bp,
	}
}

func fill(t *testing.T, s Store, txs ...Transaction) {
	t.Helper()
	for _, tx := range txs {
		require.NoError(t, s.Add(context.Background(), tx))
	}
}

func TestPoolOrdering(t *testing.T) {
	ctx := context.Background()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			fill(t, s,
				Transaction{ID: "c", Timestamp: 30},
				Transaction{ID: "a", Timestamp: 10},
				Transaction{ID: "neg", Timestamp: -5},
				Transaction{ID: "b2", Timestamp: 20},
				Transaction{ID: "b1", Timestamp: 20},
			)

			txs, err := s.PeekEarliest(ctx, 10)
			require.NoError(t, err)
			assert.Equal(t, []string{"neg", "a", "b1", "b2", "c"}, IDs(txs))

			txs, err = s.PeekEarliest(ctx, 2)
			require.NoError(t, err)
			assert.Equal(t, []string{"neg", "a"}, IDs(txs))

			txs, err = s.PeekEarliest(ctx, 0)
			require.NoError(t, err)
			assert.Empty(t, txs)

			n, err := s.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 5, n)
		})
	}
}

func TestPoolSnapshot(t *testing.T) {
	ctx := context.Background()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			fill(t, s,
				Transaction{ID: "t0", Timestamp: 1, Payload: []byte("p0")},
				Transaction{ID: "t1", Timestamp: 2, Payload: []byte("p1")},
				Transaction{ID: "t2", Timestamp: 3},
			)

			snap, err := s.Snapshot(ctx, 2)
			require.NoError(t, err)
			assert.Equal(t, 3, snap.Count)
			assert.Equal(t, []string{"t0", "t1"}, snap.IDs())
			assert.Equal(t, []byte("p1"), snap.Transactions[1].Payload)

			_, err = s.Snapshot(ctx, -1)
			assert.ErrorIs(t, err, ErrInvalidLimit)
		})
	}
}

func TestPoolDuplicateAndRemove(t *testing.T) {
	ctx := context.Background()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			fill(t, s, Transaction{ID: "a", Timestamp: 1}, Transaction{ID: "b", Timestamp: 2})

			err := s.Add(ctx, Transaction{ID: "a", Timestamp: 9})
			assert.ErrorIs(t, err, ErrDuplicate)
			assert.ErrorIs(t, s.Add(ctx, Transaction{Timestamp: 9}), ErrEmptyID)

			assert.ErrorIs(t, s.Remove(ctx, "b", "missing"), ErrNotFound)
			n, err := s.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 2, n)

			require.NoError(t, s.Remove(ctx, "a"))
			txs, err := s.PeekEarliest(ctx, 5)
			require.NoError(t, err)
			assert.Equal(t, []string{"b"}, IDs(txs))

			require.NoError(t, s.Add(ctx, Transaction{ID: "a", Timestamp: 3}))
			txs, err = s.PeekEarliest(ctx, 5)
			require.NoError(t, err)
			assert.Equal(t, []string{"b", "a"}, IDs(txs))
	
			require.NoError(t, s.Remove(ctx, "a", "a"))
			n, err = s.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, n)
		})
	}
}

func TestPoolCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for name, s := range stores(t) {
		_, err := s.Snapshot(ctx, 1)
		assert.ErrorIs(t, err, context.Canceled, name)
		assert.ErrorIs(t, s.Add(ctx, Transaction{ID: "x"}), context.Canceled, name)
	}
}

func TestSnapshotConsistentUnderWrites(t *testing.T) {
	ctx := context.Background()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					_ = s.Add(ctx, Transaction{ID: string(rune(0x4e00 + i)), Timestamp: int64(i)})
				}
			}()

			for i := 0; i < 50; i++ {
				snap, err := s.Snapshot(ctx, 1000)
				require.NoError(t, err)
				assert.Len(t, snap.Transactions, snap.Count)
			}
			wg.Wait()
		})
	}
}

func TestBoltPoolPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pool.db")

	p, err := OpenBoltPool(path, 0, nil)
	require.NoError(t, err)
	fill(t, p, Transaction{ID: "kept", Timestamp: 7, Sender: "alice", Signature: []byte{1, 2}})
	require.NoError(t, p.Close())

	p, err = OpenBoltPool(path, 0, nil)
	require.NoError(t, err)
	defer p.Close()

	txs, err := p.PeekEarliest(ctx, 1)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, Transaction{ID: "kept", Timestamp: 7, Sender: "alice", Signature: []byte{1, 2}}, txs[0])
}

func TestTransactionSerialize(t *testing.T) {
	tx := &Transaction{ID: "id", Timestamp: 42, Sender: "s", Payload: []byte("p"), Signature: []byte("sig")}

	data, err := tx.Serialize()
	require.NoError(t, err)
	got, err := DeserializeTransaction(data)
	require.NoError(t, err)
	assert.Equal(t, tx, got)

	_, err = DeserializeTransaction([]byte("garbage"))
	assert.Error(t, err)

	assert.Equal(t, []byte("idsp"), tx.SigningBytes())
}
