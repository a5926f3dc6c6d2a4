package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Dialect holds the statements that differ between SQL engines.
type Dialect struct {
	Name   string
	Get    string
	Upsert string
}

// Postgres uses numbered placeholders and EXCLUDED.
var Postgres = Dialect{
	Name: "postgres",
	Get:  `SELECT value FROM kv_store WHERE key = $1`,
	Upsert: `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`,
}

// SQLite uses positional placeholders and lower-case excluded.
var SQLite = Dialect{
	Name: "sqlite",
	Get:  `SELECT value FROM kv_store WHERE key = ?`,
	Upsert: `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`,
}

// SQLRepository stores values in the kv_store table.
type SQLRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLRepository creates a new SQLRepository.
func NewSQLRepository(db *sql.DB, dialect Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

// Get returns the value for key, or nil when the key is absent.
func (r *SQLRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := r.db.QueryRowContext(ctx, r.dialect.Get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s get %q: %w", r.dialect.Name, key, err)
	}
	return []byte(value), nil
}

// Set inserts or replaces the value for key.
func (r *SQLRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, r.dialect.Upsert, key, string(value), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%s set %q: %w", r.dialect.Name, key, err)
	}
	return nil
}
