package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open connects to Postgres through the pgx database/sql driver and waits
// for the server to answer, retrying up to attempts times.
func Open(ctx context.Context, dsn string, attempts int) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if attempts < 1 {
		attempts = 1
	}
	for i := 1; ; i++ {
		err = db.PingContext(ctx)
		if err == nil {
			return db, nil
		}
		if i >= attempts {
			break
		}
		slog.Warn("[repository] database not ready", "attempt", i, "of", attempts, "error", err)
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}

	db.Close()
	return nil, fmt.Errorf("database unreachable after %d attempts: %w", attempts, err)
}

const schema = `
CREATE TABLE IF NOT EXISTS bookings (
	id           BIGSERIAL PRIMARY KEY,
	booking_id   TEXT NOT NULL UNIQUE,
	session_id   TEXT NOT NULL,
	owner_id     TEXT NOT NULL DEFAULT '',
	route_id     TEXT NOT NULL,
	route_name   TEXT NOT NULL DEFAULT '',
	from_city    TEXT NOT NULL DEFAULT '',
	to_city      TEXT NOT NULL DEFAULT '',
	travel_date  TEXT NOT NULL DEFAULT '',
	departure    TEXT NOT NULL DEFAULT '',
	seat_numbers JSONB NOT NULL,
	total_minor  BIGINT NOT NULL DEFAULT 0,
	email        TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
ALTER TABLE bookings ADD COLUMN IF NOT EXISTS owner_id TEXT NOT NULL DEFAULT '';
UPDATE bookings SET owner_id = session_id WHERE owner_id = '';
CREATE INDEX IF NOT EXISTS bookings_owner_idx ON bookings (owner_id, created_at DESC);
`

// Migrate creates the ledger table when it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
