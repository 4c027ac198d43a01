// Package store owns the canonical extinguisher and user lists. Each list is a
// single JSON blob in the storage medium, read, modified and rewritten whole on
// every mutation.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/erazemk/gestextintor/internal/db"
)

// Storage keys. The two record keys keep the legacy browser storage names.
const (
	KeyExtinguishers = "gestextintor_data"
	KeyUsers         = "gestextintor_users"
	KeyJWTSecret     = "gestextintor_jwt_secret"
	KeyRevokedTokens = "gestextintor_revoked_tokens"
	keyPhotoPrefix   = "gestextintor_photo_"
)

var (
	// ErrDuplicateUsername is returned when registering a username that exists.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrStorageCorruption is returned when a persisted blob does not decode
	// into well-formed records. The blob is left untouched.
	ErrStorageCorruption = errors.New("storage corruption")

	// ErrInvalidExtinguisher is returned when saving a record without an id or
	// with a type or status outside the known sets.
	ErrInvalidExtinguisher = errors.New("invalid extinguisher")

	// ErrExtinguisherNotFound is returned by operations that need an existing record.
	ErrExtinguisherNotFound = errors.New("extinguisher not found")
)

// Store is the record store. It is safe for concurrent use; mutations from
// one process are serialized, writers in other processes are last-writer-wins.
type Store struct {
	kv db.KV
	mu sync.Mutex
}

// New creates a store over the given medium.
func New(kv db.KV) *Store {
	return &Store{kv: kv}
}

// readList decodes the JSON array stored under key into a fresh slice.
// found is false when nothing (or an empty string) is stored.
func readList[T any](ctx context.Context, kv db.KV, key string) (list []T, found bool, err error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !ok || raw == "" {
		return nil, false, nil
	}

	data := bytes.TrimSpace([]byte(raw))
	if len(data) == 0 || data[0] != '[' {
		return nil, true, fmt.Errorf("%w: %s is not a JSON array", ErrStorageCorruption, key)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&list); err != nil {
		return nil, true, fmt.Errorf("%w: decoding %s: %v", ErrStorageCorruption, key, err)
	}
	if dec.More() {
		return nil, true, fmt.Errorf("%w: trailing data after %s", ErrStorageCorruption, key)
	}
	if list == nil {
		list = []T{}
	}
	return list, true, nil
}

// writeList encodes list and stores it under key.
func writeList[T any](ctx context.Context, kv db.KV, key string, list []T) error {
	if list == nil {
		list = []T{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("persisting %s: %w", key, err)
	}
	return nil
}
