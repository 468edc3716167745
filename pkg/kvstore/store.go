package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("kvstore: key not found")

// Store persists opaque values under string keys.
// PutMany writes every entry or none of them.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	PutMany(ctx context.Context, entries map[string][]byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Put writes a single entry.
func Put(ctx context.Context, s Store, key string, value []byte) error {
	return s.PutMany(ctx, map[string][]byte{key: value})
}
