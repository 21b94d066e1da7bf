package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newMiniOwnerCache(t *testing.T) *OwnerCache {
	t.Helper()
	srv := miniredis.RunT(t)
	rc, err := NewRedisClient(newTestConfig("redis://" + srv.Addr()))
	if err != nil {
		t.Fatalf("NewRedisClient: %v", err)
	}
	t.Cleanup(func() { _ = rc.Close() })
	return NewOwnerCache(rc)
}

func TestOwnerCache_Key(t *testing.T) {
	c := &OwnerCache{}
	if got := c.key("0xab"); got != "commodity-owner:0xab" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestOwnerCache_PutOrdering(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	type put struct {
		owner   string
		at      time.Duration
		applied bool
	}
	tests := []struct {
		name    string
		puts    []put
		want    string
		wantHit bool
	}{
		{
			name:    "newer owner replaces older",
			puts:    []put{{"alice", 1, true}, {"bob", 2, true}},
			want:    "bob",
			wantHit: true,
		},
		{
			name:    "late fill after burn is dropped",
			puts:    []put{{"", 2, true}, {"alice", 1, false}},
			wantHit: false,
		},
		{
			name:    "late mint after transfer is dropped",
			puts:    []put{{"bob", 3, true}, {"alice", 1, false}},
			want:    "bob",
			wantHit: true,
		},
		{
			name:    "equal stamp keeps first writer",
			puts:    []put{{"alice", 1, true}, {"bob", 1, false}},
			want:    "alice",
			wantHit: true,
		},
		{
			name:    "re-mint after burn",
			puts:    []put{{"alice", 1, true}, {"", 2, true}, {"carol", 3, true}},
			want:    "carol",
			wantHit: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newMiniOwnerCache(t)
			ctx := context.Background()
			for i, p := range tt.puts {
				applied, err := c.Put(ctx, "0xab", p.owner, base.Add(p.at*time.Second))
				if err != nil {
					t.Fatalf("put %d: %v", i, err)
				}
				if applied != p.applied {
					t.Fatalf("put %d (%q): applied = %v, want %v", i, p.owner, applied, p.applied)
				}
			}

			got, err := c.Get(ctx, "0xab")
			if !tt.wantHit {
				if !errors.Is(err, ErrCacheMiss) {
					t.Fatalf("expected ErrCacheMiss, got (%q, %v)", got, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("Get: got (%q, %v), want %q", got, err, tt.want)
			}
		})
	}
}

func TestOwnerCache_MissAndExpiry(t *testing.T) {
	srv := miniredis.RunT(t)
	rc, err := NewRedisClient(newTestConfig("redis://" + srv.Addr()))
	if err != nil {
		t.Fatalf("NewRedisClient: %v", err)
	}
	defer rc.Close() //nolint:errcheck
	c := NewOwnerCache(rc)
	ctx := context.Background()

	if _, err := c.Get(ctx, "0xcd"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
	if _, err := c.Put(ctx, "0xcd", "alice", time.Now()); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if ttl := srv.TTL(c.key("0xcd")); ttl != OwnerCacheTTL {
		t.Fatalf("TTL = %v, want %v", ttl, OwnerCacheTTL)
	}

	srv.FastForward(OwnerCacheTTL + time.Second)
	if _, err := c.Get(ctx, "0xcd"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss after expiry, got %v", err)
	}
}

func TestOwnerCacheIntegration(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set; skipping integration tests")
	}

	rc, err := NewRedisClient(newTestConfig(redisURL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close() //nolint:errcheck

	ctx := context.Background()
	oc := NewOwnerCache(rc)
	item := "0x" + t.Name()
	defer rc.Client().Del(ctx, oc.key(item)) //nolint:errcheck

	now := time.Now()
	if _, err := oc.Put(ctx, item, "alice", now); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := oc.Put(ctx, item, "", now.Add(time.Millisecond)); err != nil {
		t.Fatalf("Put tombstone: %v", err)
	}
	if applied, err := oc.Put(ctx, item, "alice", now); err != nil || applied {
		t.Fatalf("stale Put: applied=%v err=%v", applied, err)
	}
	if _, err := oc.Get(ctx, item); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss after tombstone, got %v", err)
	}
}
