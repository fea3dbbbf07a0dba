package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultTimeout = 10 * time.Second

// uniqueViolation is the SQLSTATE Postgres reports for a broken unique constraint.
const uniqueViolation = "23505"

// DB wraps the connection pool shared by every repository.
type DB struct {
	*pgxpool.Pool
}

// Querier is satisfied by both the pool and an open transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Connect opens a pool against dsn and verifies it with a ping.
func Connect(ctx context.Context, dsn string) (*DB, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres config: %w", err)
	}
	config.MaxConns = 25
	config.MinConns = 2

	connectCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, config)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return &DB{Pool: pool}, nil
}

func (db *DB) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return db.Pool.Begin(ctx)
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	name          TEXT        NOT NULL,
	email         TEXT        NOT NULL UNIQUE,
	password_hash TEXT        NOT NULL,
	role          TEXT        NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS attendance (
	id         BIGSERIAL PRIMARY KEY,
	user_id    BIGINT      NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	local_date TEXT        NOT NULL,
	entry_time TIMESTAMPTZ NOT NULL,
	exit_time  TIMESTAMPTZ,
	CONSTRAINT attendance_user_day_key UNIQUE (user_id, local_date),
	CONSTRAINT attendance_exit_after_entry CHECK (exit_time IS NULL OR exit_time >= entry_time)
);

CREATE INDEX IF NOT EXISTS attendance_user_entry_idx ON attendance (user_id, entry_time DESC);
CREATE INDEX IF NOT EXISTS attendance_entry_idx ON attendance (entry_time DESC);

CREATE TABLE IF NOT EXISTS attendance_events (
	id               UUID        PRIMARY KEY,
	user_id          BIGINT      NOT NULL,
	record_id        BIGINT      NOT NULL,
	kind             TEXT        NOT NULL,
	occurred_at      TIMESTAMPTZ NOT NULL,
	outside_schedule BOOLEAN     NOT NULL DEFAULT FALSE,
	processed_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS attendance_events_user_idx ON attendance_events (user_id, occurred_at DESC);
`

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *DB) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
