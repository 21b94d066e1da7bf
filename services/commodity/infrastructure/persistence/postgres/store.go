// Package postgres provides the PostgreSQL-backed storage.Store. Registry
// transactions are serialized with a transaction-scoped advisory lock, and
// notifications are written to the event bus outbox inside the same SQL
// transaction as the state change.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ghuser/oraclegate/pkg/database"
	pkgevents "github.com/ghuser/oraclegate/pkg/events"
	"github.com/ghuser/oraclegate/pkg/logger"
	"github.com/ghuser/oraclegate/services/commodity/domain/events"
	"github.com/ghuser/oraclegate/services/commodity/domain/storage"
	"github.com/ghuser/oraclegate/services/commodity/infrastructure/messaging"
	"github.com/ghuser/oraclegate/services/commodity/infrastructure/persistence/sqlkv"
)

// advisoryLockKey identifies the registry's transaction lock ("commod").
const advisoryLockKey int64 = 0x636f6d6d6f64

var _ storage.Store = (*Store)(nil)

// Store implements storage.Store on the commodity_kv table.
type Store struct {
	db  *database.Database
	bus *pkgevents.EventBus
	log logger.Logger
}

// New returns a Store using db. bus may be nil to disable notifications.
// With a SQL event bus, notifications are published transactionally; with
// an in-process bus they are published after commit.
func New(db *database.Database, bus *pkgevents.EventBus, log logger.Logger) *Store {
	return &Store{db: db, bus: bus, log: log}
}

// Atomic implements storage.Store.
func (s *Store) Atomic(ctx context.Context, fn func(ctx context.Context, txn storage.Txn) error) error {
	var notes []events.Notification
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, advisoryLockKey); err != nil {
			return fmt.Errorf("postgres: acquire registry lock: %w", err)
		}

		stage := storage.NewStage(sqlkv.NewReader(tx, sqlkv.Postgres))
		if err := fn(ctx, stage); err != nil {
			return err
		}
		if err := sqlkv.Apply(ctx, tx, sqlkv.Postgres, stage.Writes()); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}

		notes = stage.Notifications()
		if len(notes) == 0 || !s.outbox() {
			return nil
		}
		pub, err := s.bus.NewTxPublisher(tx)
		if err != nil {
			return fmt.Errorf("postgres: outbox publisher: %w", err)
		}
		if err := messaging.PublishAll(ctx, pub, notes...); err != nil {
			return fmt.Errorf("postgres: outbox: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(notes) > 0 && s.bus != nil && !s.outbox() {
		if err := messaging.NewBusPublisher(s.bus).Publish(ctx, notes...); err != nil && s.log != nil {
			s.log.ErrorContext(ctx, "postgres store: publish committed notifications", "error", err, "count", len(notes))
		}
	}
	return nil
}

// Scan implements storage.Store.
func (s *Store) Scan(ctx context.Context, prefix string, fn func(key string, value []byte) error) error {
	return sqlkv.Scan(ctx, s.db.DB(), sqlkv.Postgres, prefix, fn)
}

// Ping checks the connection pool.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close is a no-op; the pool is owned by the caller.
func (s *Store) Close() error { return nil }

func (s *Store) outbox() bool {
	return s.bus != nil && s.bus.Durable()
}
