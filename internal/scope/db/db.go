// Package db provides read-only Postgres access to stored corpus files.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no corpus file has the requested name
var ErrNotFound = errors.New("corpus file not found")

// DB wraps the database connection pool
type DB struct {
	pool *pgxpool.Pool
}

// New creates a new database connection
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the database connection
func (d *DB) Close() {
	d.pool.Close()
}

// Pool returns the underlying connection pool
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

// CorpusFile returns the stored NDJSON content registered under name.
// The table is expected to look like:
//
//	CREATE TABLE corpus_files (
//	    name       text PRIMARY KEY,
//	    content    text NOT NULL,
//	    updated_at timestamptz NOT NULL DEFAULT now()
//	);
func (d *DB) CorpusFile(ctx context.Context, name string) ([]byte, error) {
	var content string
	err := d.pool.QueryRow(ctx, `
		SELECT content
		FROM corpus_files
		WHERE name = $1
	`, name).Scan(&content)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file %s: %w", name, err)
	}
	return []byte(content), nil
}
