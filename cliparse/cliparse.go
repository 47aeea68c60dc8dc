// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dncmaduro/vote-mcd/models"
)

// DefaultVoteStartAt is the opening time shown by the pre-open countdown
// when neither the event nor the environment provides one.
const DefaultVoteStartAt = "2026-02-07T15:00:00+07:00"

// Database types
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

type Config struct {
	Port            int
	DatabaseURL     string
	DatabaseType    string
	AdminSecret     string
	FingerprintSalt string
	MaxVotes        int
	VoteStartAt     time.Time
	VoteEndAt       *time.Time
	Seed            bool
	CORSOrigin      string
	OTelEndpoint    string
}

// envConfig mirrors Config as raw environment values.
type envConfig struct {
	Port            int    `env:"PORT" envDefault:"3318"`
	DatabaseURL     string `env:"DATABASE_URL"`
	DatabaseType    string `env:"DATABASE_TYPE" envDefault:"sqlite"`
	AdminSecret     string `env:"ADMIN_SECRET"`
	FingerprintSalt string `env:"VOTE_FINGERPRINT_SALT"`
	MaxVotes        int    `env:"MAX_VOTES" envDefault:"3"`
	VoteStartAt     string `env:"VOTE_START_AT" envDefault:"2026-02-07T15:00:00+07:00"`
	VoteEndAt       string `env:"VOTE_END_AT"`
	Seed            bool   `env:"SEED"`
	CORSOrigin      string `env:"CORS_ORIGIN"`
	OTelEndpoint    string `env:"OTEL_ENDPOINT"`
}

// ParseFlags builds the configuration.
// Precedence: CLI flag > environment > .env file > default.
func ParseFlags(args []string) (Config, error) {
	if err := loadDotEnv(os.Getenv("ENV_FILE")); err != nil {
		return Config{}, err
	}

	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	flags := flag.NewFlagSet("vote-mcd", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	flags.IntVar(&raw.Port, "p", raw.Port, "Server port")
	flags.StringVar(&raw.DatabaseURL, "d", raw.DatabaseURL, "Database URL")
	flags.StringVar(&raw.DatabaseType, "t", raw.DatabaseType, "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	flags.StringVar(&raw.AdminSecret, "admin-secret", raw.AdminSecret, "Admin shared secret (prefer env)")
	flags.StringVar(&raw.FingerprintSalt, "fp-salt", raw.FingerprintSalt, "Fingerprint hash salt (prefer env)")

	// Voting rules
	flags.IntVar(&raw.MaxVotes, "max-votes", raw.MaxVotes, "Maximum options per ballot")
	flags.StringVar(&raw.VoteStartAt, "vote-start", raw.VoteStartAt, "Default vote opening time (RFC 3339)")
	flags.StringVar(&raw.VoteEndAt, "vote-end", raw.VoteEndAt, "Vote window end (RFC 3339, optional)")
	flags.BoolVar(&raw.Seed, "seed", raw.Seed, "Insert the default event if missing")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	return raw.validate()
}

func (raw envConfig) validate() (Config, error) {
	cfg := Config{
		Port:            raw.Port,
		DatabaseURL:     raw.DatabaseURL,
		DatabaseType:    raw.DatabaseType,
		AdminSecret:     raw.AdminSecret,
		FingerprintSalt: raw.FingerprintSalt,
		MaxVotes:        raw.MaxVotes,
		Seed:            raw.Seed,
		CORSOrigin:      raw.CORSOrigin,
		OTelEndpoint:    raw.OTelEndpoint,
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, errors.New("invalid port")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if cfg.DatabaseType != DatabaseSQLite && cfg.DatabaseType != DatabasePostgres {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
	if cfg.MaxVotes < 1 {
		return Config{}, errors.New("MAX_VOTES must be at least 1")
	}

	start, err := time.Parse(time.RFC3339, raw.VoteStartAt)
	if err != nil {
		return Config{}, fmt.Errorf("invalid VOTE_START_AT: %w", err)
	}
	cfg.VoteStartAt = start

	if raw.VoteEndAt != "" {
		end, err := time.Parse(time.RFC3339, raw.VoteEndAt)
		if err != nil {
			return Config{}, fmt.Errorf("invalid VOTE_END_AT: %w", err)
		}
		cfg.VoteEndAt = &end
	}

	// Secrets - MUST be provided
	if cfg.AdminSecret == "" {
		return Config{}, errors.New("ADMIN_SECRET required")
	}
	if cfg.FingerprintSalt == "" {
		return Config{}, errors.New("VOTE_FINGERPRINT_SALT required")
	}

	return cfg, nil
}

// loadDotEnv reads KEY=VALUE pairs from path without overriding variables
// already present in the environment. A missing file is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// EffectiveMaxVotes returns MaxVotes, or the default when unset.
func (c Config) EffectiveMaxVotes() int {
	if c.MaxVotes < 1 {
		return models.DefaultMaxVotes
	}
	return c.MaxVotes
}
