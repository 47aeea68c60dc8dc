// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite file or PostgreSQL connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - AdminSecret: Shared secret expected in x-admin-secret (required)
  - FingerprintSalt: Salt for fingerprint hashing (required)
  - MaxVotes: Options allowed per ballot (default: 3)
  - VoteStartAt: Default opening time for the pre-open countdown
  - VoteEndAt: Optional end of the vote window
  - Seed: Insert the default event on startup

# Sources

Values are layered, later sources winning:

	.env file (ENV_FILE, default ".env")  → loaded with godotenv, never overrides the process env
	environment                          → parsed with caarlos0/env
	CLI flags                            → -p -d -t -admin-secret -fp-salt -max-votes -vote-start -vote-end -seed

# Environment Variables

	PORT                  → -p
	DATABASE_URL          → -d
	DATABASE_TYPE         → -t
	ADMIN_SECRET          → -admin-secret
	VOTE_FINGERPRINT_SALT → -fp-salt
	MAX_VOTES             → -max-votes
	VOTE_START_AT         → -vote-start
	VOTE_END_AT           → -vote-end
	SEED                  → -seed
	CORS_ORIGIN
	OTEL_ENDPOINT

# Validation

ParseFlags returns an error if required values are missing or malformed:

  - DATABASE_URL must be provided
  - ADMIN_SECRET must be provided
  - VOTE_FINGERPRINT_SALT must be provided
  - MAX_VOTES must be at least 1
  - VOTE_START_AT and VOTE_END_AT must be RFC 3339
*/
package cliparse
