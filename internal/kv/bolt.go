package kv

import (
	"context"
	"errors"
	"time"

	"github.com/inovacc/journal/internal/encoding"
	"go.etcd.io/bbolt"
)

const boltBucket = "journal" // key -> raw value

type Bolt struct {
	db *bbolt.DB
}

// NewBolt opens (or creates) a bbolt database at path.
func NewBolt(path string) (*Bolt, error) {
	if path == "" {
		return nil, errors.New("bolt: path is required")
	}

	if err := encoding.EnsureParentDir(path); err != nil {
		return nil, err
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	}); err != nil {
		_ = db.Close()

		return nil, err
	}

	return &Bolt{db: db}, nil
}

func (b *Bolt) Ping(_ context.Context) error {
	return b.db.View(func(tx *bbolt.Tx) error {
		return nil
	})
}

func (b *Bolt) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte

	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(boltBucket)).Get([]byte(key))
		if v != nil {
			// v is only valid inside the transaction
			out = append([]byte(nil), v...)
		}

		return nil
	})

	return out, err
}

func (b *Bolt) Update(_ context.Context, key string, fn UpdateFunc) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(boltBucket))

		var old []byte
		if v := bucket.Get([]byte(key)); v != nil {
			old = append([]byte(nil), v...)
		}

		next, err := fn(old)
		if err != nil {
			return err
		}

		return bucket.Put([]byte(key), next)
	})
}

func (b *Bolt) Close() error {
	return b.db.Close()
}
