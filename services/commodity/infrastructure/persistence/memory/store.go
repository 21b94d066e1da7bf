// Package memory provides a process-local storage.Store, used for development
// and tests. State is lost when the process exits.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/ghuser/oraclegate/pkg/logger"
	"github.com/ghuser/oraclegate/services/commodity/domain/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps all keys in a map guarded by a mutex. Transactions are applied
// one at a time; notifications are published after the commit.
type Store struct {
	mu   sync.Mutex
	data map[string][]byte
	pub  storage.Publisher
	log  logger.Logger
}

// New returns an empty Store. pub may be nil, in which case notifications are dropped.
func New(pub storage.Publisher, log logger.Logger) *Store {
	return &Store{data: make(map[string][]byte), pub: pub, log: log}
}

// Atomic implements storage.Store.
func (s *Store) Atomic(ctx context.Context, fn func(ctx context.Context, txn storage.Txn) error) error {
	stage, err := s.apply(ctx, fn)
	if err != nil {
		return err
	}
	s.publish(ctx, stage)
	return nil
}

// apply runs fn under the lock and commits its writes. The lock is released
// even if fn panics.
func (s *Store) apply(ctx context.Context, fn func(ctx context.Context, txn storage.Txn) error) (*storage.Stage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stage := storage.NewStage(reader(s.data))
	if err := fn(ctx, stage); err != nil {
		return nil, err
	}
	for _, w := range stage.Writes() {
		if w.Delete {
			delete(s.data, w.Key)
		} else {
			s.data[w.Key] = w.Value
		}
	}
	return stage, nil
}

// Scan implements storage.Store. Keys are visited in lexical order.
func (s *Store) Scan(ctx context.Context, prefix string, fn func(key string, value []byte) error) error {
	s.mu.Lock()
	keys := make([]string, 0, len(s.data))
	values := make(map[string][]byte)
	for k, v := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
			values[k] = append([]byte(nil), v...)
		}
	}
	s.mu.Unlock()

	sort.Strings(keys)
	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(k, values[k]); err != nil {
			return err
		}
	}
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close implements storage.Store.
func (s *Store) Close() error { return nil }

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

func (s *Store) publish(ctx context.Context, stage *storage.Stage) {
	notes := stage.Notifications()
	if s.pub == nil || len(notes) == 0 {
		return
	}
	if err := s.pub.Publish(ctx, notes...); err != nil && s.log != nil {
		s.log.ErrorContext(ctx, "memory store: publish committed notifications", "error", err, "count", len(notes))
	}
}

type reader map[string][]byte

func (r reader) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := r[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}
