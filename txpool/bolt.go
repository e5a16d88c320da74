package txpool

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

var (
	txBucket    = []byte("transactions")
	indexBucket = []byte("index")
)

// BoltPool persists pending transactions in a bolt database.
//
// The transactions bucket is keyed by timestamp then ID, so a cursor walks it
// in pool order; the index bucket maps an ID back to that key. A Snapshot
// runs inside one read transaction and therefore sees a single consistent
// version of both the rows and their count.
type BoltPool struct {
	db     *bolt.DB
	logger *zap.Logger
}

// OpenBoltPool opens or creates the pool database at path. timeout bounds
// the wait for the file lock; zero waits forever.
func OpenBoltPool(path string, timeout time.Duration, logger *zap.Logger) (*BoltPool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("open pool %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{txBucket, indexBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("transaction pool opened", zap.String("path", path))
	return &BoltPool{db: db, logger: logger}, nil
}

// rowKey sorts by timestamp (sign bit flipped so negatives order first),
// then by ID.
func rowKey(tx *Transaction) []byte {
	key := make([]byte, 8+len(tx.ID))
	binary.BigEndian.PutUint64(key, uint64(tx.Timestamp)^(1<<63))
	copy(key[8:], tx.ID)
	return key
}

func (p *BoltPool) Add(ctx context.Context, t Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.ID == "" {
		return ErrEmptyID
	}

	data, err := t.Serialize()
	if err != nil {
		return err
	}

	err = p.db.Update(func(tx *bolt.Tx) error {
		index := tx.Bucket(indexBucket)
		if index.Get([]byte(t.ID)) != nil {
			return fmt.Errorf("%s: %w", t.ID, ErrDuplicate)
		}

		key := rowKey(&t)
		if err := tx.Bucket(txBucket).Put(key, data); err != nil {
			return err
		}
		return index.Put([]byte(t.ID), key)
	})
	if err != nil {
		return err
	}

	p.logger.Debug("transaction pooled", zap.String("id", t.ID), zap.Int64("timestamp", t.Timestamp))
	return nil
}

// Remove deletes ids in one write transaction; if any is missing nothing is
// removed.
func (p *BoltPool) Remove(ctx context.Context, ids ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := p.db.Update(func(tx *bolt.Tx) error {
		rows := tx.Bucket(txBucket)
		index := tx.Bucket(indexBucket)

		seen := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}

			key := index.Get([]byte(id))
			if key == nil {
				return fmt.Errorf("%s: %w", id, ErrNotFound)
			}
			if err := rows.Delete(key); err != nil {
				return err
			}
			if err := index.Delete([]byte(id)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	p.logger.Debug("transactions removed", zap.Int("count", len(ids)))
	return nil
}

func (p *BoltPool) PeekEarliest(ctx context.Context, limit int) ([]Transaction, error) {
	s, err := p.Snapshot(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.Transactions, nil
}

func (p *BoltPool) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var n int
	err := p.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(txBucket).Stats().KeyN
		return nil
	})
	return n, err
}

func (p *BoltPool) Snapshot(ctx context.Context, limit int) (Snapshot, error) {
	if err := checkLimit(limit); err != nil {
		return Snapshot{}, err
	}
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	var s Snapshot
	err := p.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(txBucket)
		s.Count = b.Stats().KeyN
		s.Transactions = make([]Transaction, 0, min(limit, s.Count))

		c := b.Cursor()
		for k, v := c.First(); k != nil && len(s.Transactions) < limit; k, v = c.Next() {
			t, err := DeserializeTransaction(v)
			if err != nil {
				return err
			}
			s.Transactions = append(s.Transactions, *t)
		}
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}

	return s, nil
}

func (p *BoltPool) Close() error {
	return p.db.Close()
}

var _ Store = (*BoltPool)(nil)
