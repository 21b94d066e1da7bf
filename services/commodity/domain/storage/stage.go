package storage

import (
	"context"

	"github.com/ghuser/oraclegate/services/commodity/domain/events"
)

// Write is one buffered mutation. Delete is set when the key must be removed.
type Write struct {
	Key    string
	Value  []byte
	Delete bool
}

// Stage buffers writes and notifications on top of a Reader. Reads observe
// the buffered writes first. Backends commit Writes() and Notifications()
// once the transaction body succeeds, and drop the Stage otherwise.
type Stage struct {
	base   Reader
	writes map[string]*Write
	order  []string
	notes  []events.Notification
}

var _ Txn = (*Stage)(nil)

// NewStage returns an empty Stage reading through to base.
func NewStage(base Reader) *Stage {
	return &Stage{base: base, writes: make(map[string]*Write)}
}

// Get returns the buffered value for key, falling back to the base reader.
func (s *Stage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if w, ok := s.writes[key]; ok {
		if w.Delete {
			return nil, false, nil
		}
		return cloneBytes(w.Value), true, nil
	}
	return s.base.Get(ctx, key)
}

// Set buffers key=value.
func (s *Stage) Set(key string, value []byte) {
	s.put(&Write{Key: key, Value: cloneBytes(value)})
}

// Remove buffers a deletion of key.
func (s *Stage) Remove(key string) {
	s.put(&Write{Key: key, Delete: true})
}

// Mutate reads key, applies fn and buffers the result.
func (s *Stage) Mutate(ctx context.Context, key string, fn MutateFunc) error {
	cur, found, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	next, keep, err := fn(cur, found)
	if err != nil {
		return err
	}
	if keep {
		s.Set(key, next)
	} else {
		s.Remove(key)
	}
	return nil
}

// Emit queues a notification for delivery after commit.
func (s *Stage) Emit(n events.Notification) {
	s.notes = append(s.notes, n)
}

// Writes returns the buffered mutations in first-touch order, one per key.
func (s *Stage) Writes() []Write {
	out := make([]Write, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, *s.writes[k])
	}
	return out
}

// Notifications returns the queued notifications in emit order.
func (s *Stage) Notifications() []events.Notification {
	return append([]events.Notification(nil), s.notes...)
}

func (s *Stage) put(w *Write) {
	if _, ok := s.writes[w.Key]; !ok {
		s.order = append(s.order, w.Key)
	}
	s.writes[w.Key] = w
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
