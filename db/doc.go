// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Opening

Open selects the driver from the configured database type:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

SQLite (modernc.org/sqlite) is the default and is limited to one open
connection. PostgreSQL uses github.com/lib/pq.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - event: Votable occasion with an open/closed gate
  - option: Selectable choices per event
  - ballot: One ballot per fingerprint hash per event
  - ballot_option: Options referenced by a ballot
  - vote_count: Per-option tally
  - event_status_log: One row per status transition

# Relationships

	event 1──* option
	event 1──* ballot
	ballot *──* option (via ballot_option)
	event 1──* vote_count
	event 1──* event_status_log

The UNIQUE (event_id, fingerprint_hash) constraint on ballot is the only
thing enforcing one ballot per device per event.

# Seed

DefaultSeed returns the embedded default event (slug yep2026, closed) with
its ten acts in display order.
*/
package db
