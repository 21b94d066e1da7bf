package postgres

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/ghuser/oraclegate/pkg/database"
	"github.com/ghuser/oraclegate/pkg/logger"
	"github.com/ghuser/oraclegate/services/commodity/domain"
	"github.com/ghuser/oraclegate/services/commodity/domain/models"
	"github.com/ghuser/oraclegate/services/commodity/domain/registry"
)

// Mirrors migrations/commodity/00001_create_commodity_kv.sql.
const testSchema = `
CREATE TABLE IF NOT EXISTS commodity_kv (
    key        TEXT COLLATE "C" PRIMARY KEY,
    value      BYTEA       NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Integration tests run only when DATABASE_URL is set.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set; skipping integration tests")
	}
	ctx := context.Background()
	db, err := database.NewPool(ctx, url, logger.Discard())
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	t.Cleanup(db.Close)

	if _, err := db.DB().ExecContext(ctx, testSchema); err != nil {
		t.Fatalf("schema: %v", err)
	}
	if _, err := db.DB().ExecContext(ctx, `TRUNCATE commodity_kv`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return New(db, nil, logger.Discard())
}

func TestStoreIntegration_Registry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	reg := registry.New(store, registry.Options{StrictOwnerCheck: true})
	a := models.DigestCommodityID([]byte("pg-a"))

	if err := reg.Mint(ctx, "sudo", a, "alice"); err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if err := reg.Burn(ctx, "bob", a, "bob"); !errors.Is(err, domain.ErrNotTheOwner) {
		t.Fatalf("expected ErrNotTheOwner, got %v", err)
	}
	if err := reg.Transfer(ctx, "alice", a, "alice", "bob"); err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	report, err := reg.Audit(ctx)
	if err != nil {
		t.Fatalf("Audit: %v", err)
	}
	if !report.Healthy() || report.Total != 1 {
		t.Fatalf("unexpected audit %+v", report)
	}
}

func TestStoreIntegration_ConcurrentMintsAreSerialized(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	reg := registry.New(store, registry.Options{StrictOwnerCheck: true})
	a := models.DigestCommodityID([]byte("pg-race"))

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := reg.Mint(ctx, "sudo", a, "alice"); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if success != 1 {
		t.Fatalf("expected exactly one successful mint, got %d", success)
	}
	total, err := reg.Total(ctx)
	if err != nil || total != 1 {
		t.Fatalf("Total: got (%d, %v)", total, err)
	}
}
