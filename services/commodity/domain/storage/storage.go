// Package storage defines the key-value substrate the commodity registry runs on.
// The domain layer owns these interfaces; infrastructure implements them.
package storage

import (
	"context"
	"errors"

	"github.com/ghuser/oraclegate/services/commodity/domain/events"
)

// ErrConflict indicates a transaction lost an optimistic concurrency race
// more times than the backend is willing to retry.
var ErrConflict = errors.New("storage: concurrent modification")

// MutateFunc receives the current value of a key and returns its replacement.
// Returning keep=false removes the key.
type MutateFunc func(current []byte, found bool) (next []byte, keep bool, err error)

// Reader is the read half of the substrate.
type Reader interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
}

// KV is the view of storage handed to a transaction body.
type KV interface {
	Reader
	Set(key string, value []byte)
	Remove(key string)
	Mutate(ctx context.Context, key string, fn MutateFunc) error
}

// Txn is a KV that can also queue notifications. Writes and notifications
// become visible only if the transaction body returns nil.
type Txn interface {
	KV
	Emit(n events.Notification)
}

// Publisher delivers committed notifications to observers.
type Publisher interface {
	Publish(ctx context.Context, notifications ...events.Notification) error
}

// Store is a durable key-value substrate with all-or-nothing transactions.
type Store interface {
	// Atomic runs fn against a staged transaction. If fn returns an error,
	// nothing it wrote or emitted is applied.
	Atomic(ctx context.Context, fn func(ctx context.Context, txn Txn) error) error

	// Scan calls fn for every key with the given prefix, in key order where
	// the backend supports it.
	Scan(ctx context.Context, prefix string, fn func(key string, value []byte) error) error

	Close() error
}
