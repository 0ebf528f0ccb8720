package ledger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketAccounts = []byte("accounts_by_address")

// BoltStore keeps accounts in a single bbolt file. bbolt allows one writer
// at a time, so Create's existence check and write cannot interleave with
// another Update.
type BoltStore struct {
	db *bolt.DB
}

func OpenBolt(path string) (*BoltStore, error) {
	if path == "" {
		return nil, fmt.Errorf("ledger path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger dir: %w", err)
	}
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("open bbolt: %w", err)
	}
	if err := bdb.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketAccounts); err != nil {
			return fmt.Errorf("create bucket %s: %w", string(bucketAccounts), err)
		}
		return nil
	}); err != nil {
		_ = bdb.Close()
		return nil, err
	}
	return &BoltStore{db: bdb}, nil
}

func (s *BoltStore) View(ctx context.Context, fn func(Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(tx *bolt.Tx) error {
		return fn(&boltTx{bucket: tx.Bucket(bucketAccounts), readOnly: true})
	})
}

func (s *BoltStore) Update(ctx context.Context, fn func(Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return fn(&boltTx{bucket: tx.Bucket(bucketAccounts)})
	})
}

func (s *BoltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type boltTx struct {
	bucket   *bolt.Bucket
	readOnly bool
}

func (t *boltTx) Get(addr Address) ([]byte, error) {
	v := t.bucket.Get(addr[:])
	if v == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
	}
	// bbolt values are only valid for the life of the transaction.
	return append([]byte(nil), v...), nil
}

func (t *boltTx) Create(addr Address, data []byte) error {
	if t.readOnly {
		return ErrReadOnly
	}
	if t.bucket.Get(addr[:]) != nil {
		return fmt.Errorf("%w: %s", ErrAccountExists, addr)
	}
	return t.bucket.Put(addr[:], data)
}

func (t *boltTx) Put(addr Address, data []byte) error {
	if t.readOnly {
		return ErrReadOnly
	}
	if t.bucket.Get(addr[:]) == nil {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
	}
	return t.bucket.Put(addr[:], data)
}
