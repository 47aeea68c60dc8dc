// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the vote-mcd API server.

vote-mcd runs event voting for a single company show: each device picks up
to MAX_VOTES acts once per event, an admin opens and closes voting, and
every change is pushed live to connected screens.

# Starting the Server

The server reads a .env file, then environment variables, then CLI flags:

	DATABASE_URL=votes.db ADMIN_SECRET=... VOTE_FINGERPRINT_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -seed

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - ADMIN_SECRET (-admin-secret): Shared secret for admin routes
  - VOTE_FINGERPRINT_SALT (-fp-salt): Secret mixed into fingerprint hashes

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - MAX_VOTES (-max-votes): Options per ballot (default: 3)
  - VOTE_START_AT, VOTE_END_AT: Default vote window
  - SEED (-seed): Create the default event if missing
  - CORS_ORIGIN, OTEL_ENDPOINT

# Architecture

  - handlers: HTTP request handlers (events, voting, results, admin, live)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, tracing, JSON helpers, admin guard
  - store: Data access and change publishing
  - realtime: Per-event change fan-out
  - models, apierr: Wire types and error taxonomy
  - auth: Fingerprint hashing and secret checks
  - db: Schema creation and default seed
  - cliparse: Configuration parsing
  - locale, tally, telemetry: Supporting packages

The client side lives in session, watcher, admin, fingerprint and client,
driven by cmd/votectl.
*/
package main
