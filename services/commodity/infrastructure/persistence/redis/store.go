// Package redis provides a Redis-backed storage.Store. Transactions use
// optimistic concurrency: a version key is WATCHed while the body runs and
// bumped in the MULTI/EXEC that applies its writes.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ghuser/oraclegate/pkg/logger"
	"github.com/ghuser/oraclegate/services/commodity/domain/storage"
)

const (
	versionKey = "_version"
	maxRetries = 16
	scanBatch  = 256
)

var _ storage.Store = (*Store)(nil)

// Store implements storage.Store on a Redis keyspace. Every key is stored
// under prefix so several registries can share one database.
type Store struct {
	client *goredis.Client
	prefix string
	pub    storage.Publisher
	log    logger.Logger
}

// New returns a Store. pub may be nil, in which case notifications are dropped.
func New(client *goredis.Client, prefix string, pub storage.Publisher, log logger.Logger) *Store {
	return &Store{client: client, prefix: prefix, pub: pub, log: log}
}

// Atomic implements storage.Store. A body that loses the race against a
// concurrent writer is re-run; after maxRetries losses ErrConflict is returned.
func (s *Store) Atomic(ctx context.Context, fn func(ctx context.Context, txn storage.Txn) error) error {
	for attempt := 0; attempt < maxRetries; attempt++ {
		var stage *storage.Stage
		err := s.client.Watch(ctx, func(tx *goredis.Tx) error {
			stage = storage.NewStage(reader{tx: tx, prefix: s.prefix})
			if err := fn(ctx, stage); err != nil {
				return err
			}
			writes := stage.Writes()
			if len(writes) == 0 {
				return nil
			}
			_, err := tx.TxPipelined(ctx, func(p goredis.Pipeliner) error {
				for _, w := range writes {
					if w.Delete {
						p.Del(ctx, s.prefix+w.Key)
					} else {
						p.Set(ctx, s.prefix+w.Key, w.Value, 0)
					}
				}
				p.Incr(ctx, s.prefix+versionKey)
				return nil
			})
			return err
		}, s.prefix+versionKey)

		switch {
		case errors.Is(err, goredis.TxFailedErr):
			if s.log != nil {
				s.log.DebugContext(ctx, "redis store: transaction conflict, retrying", "attempt", attempt+1)
			}
			continue
		case err != nil:
			return err
		}

		s.publish(ctx, stage)
		return nil
	}
	return fmt.Errorf("redis store: %d attempts: %w", maxRetries, storage.ErrConflict)
}

// Scan implements storage.Store. Keys are visited in lexical order.
func (s *Store) Scan(ctx context.Context, prefix string, fn func(key string, value []byte) error) error {
	pattern := escapeGlob(s.prefix+prefix) + "*"
	var keys []string
	iter := s.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
	for iter.Next(ctx) {
		if k := iter.Val(); k != s.prefix+versionKey {
			keys = append(keys, k)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis store: scan %q: %w", prefix, err)
	}
	sort.Strings(keys)

	for start := 0; start < len(keys); start += scanBatch {
		end := min(start+scanBatch, len(keys))
		vals, err := s.client.MGet(ctx, keys[start:end]...).Result()
		if err != nil {
			return fmt.Errorf("redis store: mget: %w", err)
		}
		for i, v := range vals {
			str, ok := v.(string)
			if !ok {
				// deleted between SCAN and MGET
				continue
			}
			if err := fn(strings.TrimPrefix(keys[start+i], s.prefix), []byte(str)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close is a no-op; the client is owned by the caller.
func (s *Store) Close() error { return nil }

func (s *Store) publish(ctx context.Context, stage *storage.Stage) {
	notes := stage.Notifications()
	if s.pub == nil || len(notes) == 0 {
		return
	}
	if err := s.pub.Publish(ctx, notes...); err != nil && s.log != nil {
		s.log.ErrorContext(ctx, "redis store: publish committed notifications", "error", err, "count", len(notes))
	}
}

type reader struct {
	tx     *goredis.Tx
	prefix string
}

func (r reader) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := r.tx.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis store: get %q: %w", key, err)
	}
	return v, true, nil
}

// escapeGlob quotes the characters SCAN MATCH treats specially.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\', '^', '-':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
