// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Driver names registered by the imported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the database of the given type ("sqlite" or "postgres")
// and verifies the connection. SQLite is limited to a single connection so
// writers serialize instead of failing with SQLITE_BUSY.
func Open(dbType, url string) (*sql.DB, error) {
	var driver string
	switch dbType {
	case "postgres":
		driver = DriverPostgres
	case "sqlite":
		driver = DriverSQLite
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbType, err)
	}
	if driver == DriverSQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", dbType, err)
	}

	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dbType string) error {
	if _, err := db.Exec(Schema(dbType)); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Schema returns the DDL for the given database type. The two dialects
// differ only in timestamp and counter column types.
func Schema(dbType string) string {
	ts, counter := "TIMESTAMP", "INTEGER"
	if dbType == "postgres" {
		ts, counter = "TIMESTAMPTZ", "BIGINT"
	}
	return strings.NewReplacer("{{ts}}", ts, "{{counter}}", counter).Replace(schema)
}

const schema = `
-- Events
CREATE TABLE IF NOT EXISTS event (
    id TEXT PRIMARY KEY,
    slug TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'closed' CHECK (status IN ('open', 'closed')),
    opens_at {{ts}},
    closes_at {{ts}},
    created_at {{ts}} NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_event_status ON event(status);

-- Options
CREATE TABLE IF NOT EXISTS option (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL REFERENCES event(id) ON DELETE CASCADE,
    label TEXT NOT NULL,
    sort_order INTEGER NOT NULL DEFAULT 0,
    seq INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_option_event_id ON option(event_id, sort_order, seq);

-- Ballots
CREATE TABLE IF NOT EXISTS ballot (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL REFERENCES event(id) ON DELETE CASCADE,
    fingerprint_hash TEXT NOT NULL,
    ip_hash TEXT,
    user_agent TEXT,
    submitted_at {{ts}} NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (event_id, fingerprint_hash)
);

CREATE INDEX IF NOT EXISTS idx_ballot_event_id ON ballot(event_id);

CREATE TABLE IF NOT EXISTS ballot_option (
    ballot_id TEXT NOT NULL REFERENCES ballot(id) ON DELETE CASCADE,
    option_id TEXT NOT NULL REFERENCES option(id) ON DELETE CASCADE,
    PRIMARY KEY (ballot_id, option_id)
);

CREATE INDEX IF NOT EXISTS idx_ballot_option_option_id ON ballot_option(option_id);

-- Vote counts, maintained by the ballot insert transaction
CREATE TABLE IF NOT EXISTS vote_count (
    event_id TEXT NOT NULL REFERENCES event(id) ON DELETE CASCADE,
    option_id TEXT NOT NULL REFERENCES option(id) ON DELETE CASCADE,
    count {{counter}} NOT NULL DEFAULT 0,
    PRIMARY KEY (event_id, option_id)
);

-- Status transitions
CREATE TABLE IF NOT EXISTS event_status_log (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL REFERENCES event(id) ON DELETE CASCADE,
    from_status TEXT NOT NULL,
    to_status TEXT NOT NULL,
    changed_at {{ts}} NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_event_status_log_event_id ON event_status_log(event_id);
`
