package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/ghuser/oraclegate/services/commodity/domain/events"
)

type mapReader map[string][]byte

func (m mapReader) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

type failingReader struct{ err error }

func (f failingReader) Get(context.Context, string) ([]byte, bool, error) { return nil, false, f.err }

func TestStage_ReadsThroughToBase(t *testing.T) {
	s := NewStage(mapReader{"a": []byte("1")})

	v, ok, err := s.Get(context.Background(), "a")
	if err != nil || !ok || string(v) != "1" {
		t.Fatalf("got (%q, %v, %v), want (1, true, nil)", v, ok, err)
	}
	if _, ok, _ := s.Get(context.Background(), "missing"); ok {
		t.Fatal("expected missing key to be absent")
	}
}

func TestStage_BufferedWritesShadowBase(t *testing.T) {
	base := mapReader{"a": []byte("1"), "b": []byte("2")}
	s := NewStage(base)

	s.Set("a", []byte("10"))
	s.Remove("b")

	if v, _, _ := s.Get(context.Background(), "a"); string(v) != "10" {
		t.Errorf("expected buffered value 10, got %q", v)
	}
	if _, ok, _ := s.Get(context.Background(), "b"); ok {
		t.Error("expected removed key to be absent")
	}
	if string(base["a"]) != "1" {
		t.Error("base must not be modified by buffered writes")
	}
}

func TestStage_WritesOrderAndCollapse(t *testing.T) {
	s := NewStage(mapReader{})
	s.Set("x", []byte("1"))
	s.Set("y", []byte("2"))
	s.Set("x", []byte("3"))
	s.Remove("y")

	got := s.Writes()
	if len(got) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(got))
	}
	if got[0].Key != "x" || string(got[0].Value) != "3" || got[0].Delete {
		t.Errorf("unexpected first write: %+v", got[0])
	}
	if got[1].Key != "y" || !got[1].Delete {
		t.Errorf("unexpected second write: %+v", got[1])
	}
}

func TestStage_SetCopiesValue(t *testing.T) {
	s := NewStage(mapReader{})
	v := []byte("abc")
	s.Set("k", v)
	v[0] = 'z'

	got, _, _ := s.Get(context.Background(), "k")
	if string(got) != "abc" {
		t.Fatalf("expected stage to hold a copy, got %q", got)
	}
}

func TestStage_Mutate(t *testing.T) {
	t.Run("updates existing", func(t *testing.T) {
		s := NewStage(mapReader{"n": []byte("1")})
		err := s.Mutate(context.Background(), "n", func(cur []byte, found bool) ([]byte, bool, error) {
			if !found || string(cur) != "1" {
				t.Fatalf("unexpected current value %q (found=%v)", cur, found)
			}
			return []byte("2"), true, nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v, _, _ := s.Get(context.Background(), "n"); string(v) != "2" {
			t.Fatalf("expected 2, got %q", v)
		}
	})

	t.Run("keep=false removes", func(t *testing.T) {
		s := NewStage(mapReader{"n": []byte("1")})
		_ = s.Mutate(context.Background(), "n", func([]byte, bool) ([]byte, bool, error) {
			return nil, false, nil
		})
		if _, ok, _ := s.Get(context.Background(), "n"); ok {
			t.Fatal("expected key removed")
		}
	})

	t.Run("fn error leaves stage untouched", func(t *testing.T) {
		s := NewStage(mapReader{"n": []byte("1")})
		boom := errors.New("boom")
		err := s.Mutate(context.Background(), "n", func([]byte, bool) ([]byte, bool, error) {
			return []byte("x"), true, boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		if len(s.Writes()) != 0 {
			t.Fatal("expected no buffered writes")
		}
	})

	t.Run("base error propagates", func(t *testing.T) {
		boom := errors.New("read failed")
		s := NewStage(failingReader{err: boom})
		err := s.Mutate(context.Background(), "n", func([]byte, bool) ([]byte, bool, error) {
			t.Fatal("fn must not be called")
			return nil, false, nil
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected read error, got %v", err)
		}
	})
}

func TestStage_Notifications(t *testing.T) {
	s := NewStage(mapReader{})
	s.Emit(events.MintedEvent{Owner: "alice"})
	s.Emit(events.BurnedEvent{Owner: "alice"})

	got := s.Notifications()
	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	if got[0].Topic() != events.TopicMinted || got[1].Topic() != events.TopicBurned {
		t.Fatalf("unexpected order: %s, %s", got[0].Topic(), got[1].Topic())
	}
}
