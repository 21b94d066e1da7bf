package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ghuser/oraclegate/services/commodity/domain/events"
	"github.com/ghuser/oraclegate/services/commodity/domain/models"
	"github.com/ghuser/oraclegate/services/commodity/domain/storage"
)

type countingPublisher struct{ n int }

func (p *countingPublisher) Publish(_ context.Context, notes ...events.Notification) error {
	p.n += len(notes)
	return nil
}

func TestAtomic_CommitsWritesAndPublishes(t *testing.T) {
	pub := &countingPublisher{}
	s := New(pub, nil)
	ctx := context.Background()

	err := s.Atomic(ctx, func(ctx context.Context, txn storage.Txn) error {
		txn.Set("k1", []byte("v1"))
		txn.Set("k2", []byte("v2"))
		txn.Remove("k2")
		txn.Emit(events.MintedEvent{Owner: models.AccountID("alice")})
		return nil
	})
	if err != nil {
		t.Fatalf("Atomic: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 key, got %d", s.Len())
	}
	if pub.n != 1 {
		t.Fatalf("expected 1 notification, got %d", pub.n)
	}
}

func TestAtomic_ErrorDiscardsEverything(t *testing.T) {
	pub := &countingPublisher{}
	s := New(pub, nil)
	boom := errors.New("boom")

	err := s.Atomic(context.Background(), func(ctx context.Context, txn storage.Txn) error {
		txn.Set("k", []byte("v"))
		txn.Emit(events.MintedEvent{})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected no keys, got %d", s.Len())
	}
	if pub.n != 0 {
		t.Fatalf("expected no notifications, got %d", pub.n)
	}
}

func TestAtomic_ReadsOwnWrites(t *testing.T) {
	s := New(nil, nil)
	err := s.Atomic(context.Background(), func(ctx context.Context, txn storage.Txn) error {
		txn.Set("k", []byte("v"))
		got, found, err := txn.Get(ctx, "k")
		if err != nil || !found || string(got) != "v" {
			t.Fatalf("Get inside txn: got (%q, %v, %v)", got, found, err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Atomic: %v", err)
	}
}

func TestScan_PrefixOrderAndCopies(t *testing.T) {
	s := New(nil, nil)
	ctx := context.Background()
	_ = s.Atomic(ctx, func(ctx context.Context, txn storage.Txn) error {
		txn.Set("p/b", []byte("2"))
		txn.Set("p/a", []byte("1"))
		txn.Set("q/c", []byte("3"))
		return nil
	})

	var keys []string
	err := s.Scan(ctx, "p/", func(key string, value []byte) error {
		keys = append(keys, key)
		value[0] = 'x'
		return nil
	})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(keys) != 2 || keys[0] != "p/a" || keys[1] != "p/b" {
		t.Fatalf("unexpected keys %v", keys)
	}

	_ = s.Atomic(ctx, func(ctx context.Context, txn storage.Txn) error {
		got, _, _ := txn.Get(ctx, "p/a")
		if string(got) != "1" {
			t.Fatalf("scan callback mutated stored value: %q", got)
		}
		return nil
	})
}

func TestScan_StopsOnCancelledContext(t *testing.T) {
	s := New(nil, nil)
	_ = s.Atomic(context.Background(), func(ctx context.Context, txn storage.Txn) error {
		txn.Set("p/a", []byte("1"))
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Scan(ctx, "p/", func(string, []byte) error { return nil }); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestAtomic_PanicReleasesLock(t *testing.T) {
	s := New(nil, nil)
	ctx := context.Background()

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected the panic to propagate")
			}
		}()
		_ = s.Atomic(ctx, func(ctx context.Context, txn storage.Txn) error {
			txn.Set("k", []byte("v"))
			panic("boom")
		})
	}()

	done := make(chan error, 1)
	go func() {
		done <- s.Atomic(ctx, func(ctx context.Context, txn storage.Txn) error {
			txn.Set("after", []byte("ok"))
			return nil
		})
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Atomic after panic: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("store stayed locked after a panicking transaction")
	}
	if s.Len() != 1 {
		t.Fatalf("expected only the later write, got %d keys", s.Len())
	}
}
