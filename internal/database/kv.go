package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const (
	postgresGetSQL    = `SELECT value FROM kv_store WHERE key = $1`
	postgresUpsertSQL = `INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	sqliteGetSQL    = `SELECT value FROM kv_store WHERE key = ?`
	sqliteUpsertSQL = `INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
)

// KV persists record collections as rows of the kv_store table, one row
// per collection key. It satisfies store.Adapter.
type KV struct {
	db        *sql.DB
	getSQL    string
	upsertSQL string
}

// NewKV returns a KV for a database opened with Connect.
func NewKV(db *sql.DB, driver string) *KV {
	if driver == DriverPostgres {
		return &KV{db: db, getSQL: postgresGetSQL, upsertSQL: postgresUpsertSQL}
	}
	return &KV{db: db, getSQL: sqliteGetSQL, upsertSQL: sqliteUpsertSQL}
}

// Get returns the value stored under key.
func (kv *KV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := kv.db.QueryRowContext(ctx, kv.getSQL, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(value), true, nil
}

// Set inserts or replaces the value stored under key.
func (kv *KV) Set(ctx context.Context, key string, value []byte) error {
	if _, err := kv.db.ExecContext(ctx, kv.upsertSQL, key, string(value)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
