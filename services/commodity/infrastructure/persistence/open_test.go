package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ghuser/oraclegate/pkg/app"
	"github.com/ghuser/oraclegate/pkg/config"
	"github.com/ghuser/oraclegate/pkg/events"
	"github.com/ghuser/oraclegate/pkg/logger"
	"github.com/ghuser/oraclegate/services/commodity/infrastructure/persistence/memory"
	"github.com/ghuser/oraclegate/services/commodity/infrastructure/persistence/sqlite"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
		check   func(t *testing.T, store any)
	}{
		{
			name: "memory",
			cfg:  config.Config{StoreBackend: config.StoreMemory},
			check: func(t *testing.T, store any) {
				if _, ok := store.(*memory.Store); !ok {
					t.Errorf("expected *memory.Store, got %T", store)
				}
			},
		},
		{
			name: "sqlite",
			cfg:  config.Config{StoreBackend: config.StoreSQLite, SQLitePath: filepath.Join(t.TempDir(), "reg.db")},
			check: func(t *testing.T, store any) {
				if _, ok := store.(*sqlite.Store); !ok {
					t.Errorf("expected *sqlite.Store, got %T", store)
				}
			},
		},
		{name: "redis without client", cfg: config.Config{StoreBackend: config.StoreRedis}, wantErr: true},
		{name: "postgres without pool", cfg: config.Config{StoreBackend: config.StorePostgres}, wantErr: true},
		{name: "unknown", cfg: config.Config{StoreBackend: "etcd"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := logger.Discard()
			bus := events.NewInProcessEventBus(log)
			t.Cleanup(func() { _ = bus.Close() })

			cfg := tt.cfg
			store, err := Open(context.Background(), &app.Application{Config: &cfg, Logger: log, EventBus: bus})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			t.Cleanup(func() { _ = store.Close() })
			tt.check(t, store)
		})
	}
}
