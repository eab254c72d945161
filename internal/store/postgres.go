package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PostgresDriver is the database/sql driver name registered by pgx's stdlib
// package. The binary imports github.com/jackc/pgx/v5/stdlib for it.
const PostgresDriver = "pgx"

const createKVTable = `CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const (
	selectValue = `SELECT value FROM kv_store WHERE key = $1`
	upsertValue = `INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	deleteValue = `DELETE FROM kv_store WHERE key = $1`
)

// PostgresBackend stores values in a single kv_store table.
type PostgresBackend struct {
	db     *sql.DB
	prefix string
}

// NewPostgresBackend wraps db and creates the table if it does not exist.
func NewPostgresBackend(ctx context.Context, db *sql.DB, prefix string) (*PostgresBackend, error) {
	if _, err := db.ExecContext(ctx, createKVTable); err != nil {
		return nil, fmt.Errorf("create kv_store: %w", err)
	}
	return &PostgresBackend{db: db, prefix: prefix}, nil
}

// OpenPostgres opens dsn with the pgx driver.
func OpenPostgres(ctx context.Context, dsn, prefix string) (*PostgresBackend, error) {
	db, err := sql.Open(PostgresDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	b, err := NewPostgresBackend(ctx, db, prefix)
	if err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

func (b *PostgresBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := b.db.QueryRowContext(ctx, selectValue, b.prefix+key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return data, nil
}

func (b *PostgresBackend) Put(ctx context.Context, key string, value []byte) error {
	if _, err := b.db.ExecContext(ctx, upsertValue, b.prefix+key, value); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (b *PostgresBackend) Delete(ctx context.Context, key string) error {
	if _, err := b.db.ExecContext(ctx, deleteValue, b.prefix+key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (b *PostgresBackend) Close() error { return b.db.Close() }
