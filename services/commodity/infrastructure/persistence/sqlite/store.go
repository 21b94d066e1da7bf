// Package sqlite provides a SQLite-backed storage.Store for single-node
// deployments. It uses the pure Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/ghuser/oraclegate/pkg/logger"
	"github.com/ghuser/oraclegate/services/commodity/domain/events"
	"github.com/ghuser/oraclegate/services/commodity/domain/storage"
	"github.com/ghuser/oraclegate/services/commodity/infrastructure/persistence/sqlkv"
)

var _ storage.Store = (*Store)(nil)

// Store keeps registry keys in one SQLite table. All access goes through a
// single connection, so transactions are serialized.
type Store struct {
	db  *sql.DB
	pub storage.Publisher
	log logger.Logger
}

// Open opens (creating if needed) the database at path and ensures the schema
// exists. Use ":memory:" for a throwaway database.
func Open(path string, pub storage.Publisher, log logger.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite: path is required")
	}
	dsn := "file::memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create directory: %w", err)
		}
		dsn = filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqlkv.SQLiteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: create schema: %w", err)
	}
	return &Store{db: db, pub: pub, log: log}, nil
}

// Atomic implements storage.Store.
func (s *Store) Atomic(ctx context.Context, fn func(ctx context.Context, txn storage.Txn) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stage := storage.NewStage(sqlkv.NewReader(tx, sqlkv.SQLite))
	if err := fn(ctx, stage); err != nil {
		return err
	}
	if err := sqlkv.Apply(ctx, tx, sqlkv.SQLite, stage.Writes()); err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}

	s.publish(ctx, stage.Notifications())
	return nil
}

// Scan implements storage.Store.
func (s *Store) Scan(ctx context.Context, prefix string, fn func(key string, value []byte) error) error {
	return sqlkv.Scan(ctx, s.db, sqlkv.SQLite, prefix, fn)
}

// Ping checks the database handle.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) publish(ctx context.Context, notes []events.Notification) {
	if s.pub == nil || len(notes) == 0 {
		return
	}
	if err := s.pub.Publish(ctx, notes...); err != nil && s.log != nil {
		s.log.ErrorContext(ctx, "sqlite store: publish committed notifications", "error", err, "count", len(notes))
	}
}
