package db

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

var bucketBlobs = []byte("blobs")

// BoltKV stores blobs in a single bbolt bucket.
type BoltKV struct {
	db *bbolt.DB
}

// OpenBolt opens (or creates) a bbolt file and ensures the blobs bucket exists.
func OpenBolt(path string) (*BoltKV, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening bolt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketBlobs)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating blobs bucket: %w", err)
	}

	return &BoltKV{db: db}, nil
}

// Close closes the underlying file. Calling it twice is safe.
func (b *BoltKV) Close() error {
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}

// Get implements KV.
func (b *BoltKV) Get(_ context.Context, key string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketBlobs)
		if bucket == nil {
			return fmt.Errorf("blobs bucket not found")
		}
		// Seek instead of Get so an empty value is still found. Bytes are only
		// valid inside the transaction.
		k, data := bucket.Cursor().Seek([]byte(key))
		if k != nil && string(k) == key {
			value = string(data)
			ok = true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("getting blob %s: %w", key, err)
	}
	return value, ok, nil
}

// Set implements KV.
func (b *BoltKV) Set(_ context.Context, key, value string) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketBlobs)
		if bucket == nil {
			return fmt.Errorf("blobs bucket not found")
		}
		return bucket.Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("setting blob %s: %w", key, err)
	}
	return nil
}

// Delete implements KV.
func (b *BoltKV) Delete(_ context.Context, key string) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketBlobs)
		if bucket == nil {
			return fmt.Errorf("blobs bucket not found")
		}
		return bucket.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("deleting blob %s: %w", key, err)
	}
	return nil
}
