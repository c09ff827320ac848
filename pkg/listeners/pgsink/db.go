// Package pgsink persists a search's lifecycle events to PostgreSQL,
// satisfying search.Listener[S] as an optional external consumer (spec
// §6's "SearchListener" contract — the engine core never requires one).
// Grounded on the teacher's internal/database/database.go: same
// sql.Open("postgres", ...)/connection-pool/PingContext setup and slow-
// query logging wrapper, repurposed from scheduling persistence to
// recording optimization run history.
package pgsink

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/freedakipad/optima/pkg/logger"
)

// Config configures the PostgreSQL connection pgsink writes to.
type Config struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (c Config) dsn() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// DB wraps a connection pool to the run-history database.
type DB struct {
	*sql.DB
}

// Open connects to PostgreSQL per cfg and verifies connectivity before
// returning.
func Open(cfg Config) (*DB, error) {
	db, err := sql.Open("postgres", cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Get().Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Name).
		Msg("pgsink connected")

	return &DB{DB: db}, nil
}

// WrapForTest wraps an already-open *sql.DB (typically a sqlmock
// connection) without dialing PostgreSQL, so Sink can be exercised
// against a mocked driver.
func WrapForTest(db *sql.DB) *DB {
	return &DB{DB: db}
}

// Close closes the underlying pool.
func (db *DB) Close() error {
	if db.DB == nil {
		return nil
	}
	return db.DB.Close()
}

// Health reports whether the connection is alive.
func (db *DB) Health(ctx context.Context) error {
	return db.PingContext(ctx)
}

// ExecContext wraps sql.DB.ExecContext with slow-query logging, matching
// the teacher's database.go threshold.
func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := db.DB.ExecContext(ctx, query, args...)
	if duration := time.Since(start); duration > 100*time.Millisecond {
		logger.Get().Warn().
			Str("query", truncateQuery(query)).
			Dur("duration", duration).
			Msg("slow pgsink query")
	}
	return result, err
}

func truncateQuery(query string) string {
	if len(query) > 200 {
		return query[:200] + "..."
	}
	return query
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS run_events (
	id          BIGSERIAL PRIMARY KEY,
	run_id      UUID NOT NULL,
	component   TEXT NOT NULL,
	event       TEXT NOT NULL,
	step        INTEGER,
	value       DOUBLE PRECISION,
	description TEXT,
	observed_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// EnsureSchema creates the run_events table if it does not already exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.ExecContext(ctx, schemaDDL)
	return err
}
