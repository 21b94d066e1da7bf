// Package sqlkv maps the registry's key-value substrate onto a single SQL
// table (key TEXT primary key, value BLOB/BYTEA). It is shared by the
// PostgreSQL and SQLite stores, which differ only in placeholder syntax and
// in how they serialize transactions.
package sqlkv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/ghuser/oraclegate/services/commodity/domain/storage"
)

// Table is the relation holding all registry keys.
const Table = "commodity_kv"

// SQLiteSchema creates Table on SQLite. The PostgreSQL table is created by the
// goose migrations under migrations/commodity.
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS commodity_kv (
    key   TEXT PRIMARY KEY,
    value BLOB NOT NULL
) WITHOUT ROWID;
`

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Dialect renders positional placeholders.
type Dialect int

const (
	Postgres Dialect = iota // $1, $2, ...
	SQLite                  // ?, ?, ...
)

func (d Dialect) arg(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Reader reads keys through q.
type Reader struct {
	q       Querier
	dialect Dialect
}

// NewReader returns a storage.Reader over q.
func NewReader(q Querier, d Dialect) Reader {
	return Reader{q: q, dialect: d}
}

// Get implements storage.Reader.
func (r Reader) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := r.q.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT value FROM %s WHERE key = %s`, Table, r.dialect.arg(1)),
		key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Apply writes a staged transaction's writes through q in order.
func Apply(ctx context.Context, q Querier, d Dialect, writes []storage.Write) error {
	upsert := fmt.Sprintf(
		`INSERT INTO %s (key, value) VALUES (%s, %s)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		Table, d.arg(1), d.arg(2),
	)
	del := fmt.Sprintf(`DELETE FROM %s WHERE key = %s`, Table, d.arg(1))

	for _, w := range writes {
		if w.Delete {
			if _, err := q.ExecContext(ctx, del, w.Key); err != nil {
				return fmt.Errorf("delete %s: %w", w.Key, err)
			}
			continue
		}
		if _, err := q.ExecContext(ctx, upsert, w.Key, w.Value); err != nil {
			return fmt.Errorf("upsert %s: %w", w.Key, err)
		}
	}
	return nil
}

// Scan calls fn for every key starting with prefix, in byte order.
func Scan(ctx context.Context, q Querier, d Dialect, prefix string, fn func(key string, value []byte) error) error {
	query := fmt.Sprintf(`SELECT key, value FROM %s WHERE key >= %s`, Table, d.arg(1))
	args := []any{prefix}
	if upper, ok := UpperBound(prefix); ok {
		query += fmt.Sprintf(` AND key < %s`, d.arg(2))
		args = append(args, upper)
	}
	query += ` ORDER BY key`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("scan %s: %w", prefix, err)
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var (
			key   string
			value []byte
		)
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("scan %s: %w", prefix, err)
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}
	return rows.Err()
}

// UpperBound returns the smallest string greater than every string with the
// given prefix. ok is false when no such bound exists (empty or all 0xff).
func UpperBound(prefix string) (string, bool) {
	b := []byte(prefix)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < 0xff {
			b[i]++
			return string(b[:i+1]), true
		}
	}
	return "", false
}
