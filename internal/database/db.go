package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// DB wraps the Postgres connection pool that backs the notes collection and the
// service settings tables.
type DB struct {
	*sql.DB
}

// New opens a connection pool for databaseURL and verifies it with a ping
func New(databaseURL string) (*DB, error) {
	return NewContext(context.Background(), databaseURL)
}

// NewContext is New with a caller-supplied context for the initial ping
func NewContext(ctx context.Context, databaseURL string) (*DB, error) {
	sqlDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: sqlDB}, nil
}

// EnsureSchema creates the tables the service uses when they are missing
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS notes (
		id UUID PRIMARY KEY,
		month TEXT NOT NULL,
		doc JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS notes_month_idx ON notes (month)`,
	`CREATE TABLE IF NOT EXISTS tag_summaries (
		month TEXT PRIMARY KEY,
		counts JSONB NOT NULL DEFAULT '{}',
		notes INTEGER NOT NULL DEFAULT 0,
		tainted BOOLEAN NOT NULL DEFAULT true,
		last_analyzed_at TIMESTAMPTZ,
		version INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS cors_config (
		config_key TEXT PRIMARY KEY,
		allowed_origins TEXT NOT NULL,
		allow_credentials BOOLEAN NOT NULL DEFAULT true,
		max_age INTEGER NOT NULL DEFAULT 86400,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS ratelimit_config (
		config_key TEXT PRIMARY KEY,
		rate TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}
