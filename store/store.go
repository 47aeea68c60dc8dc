// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dncmaduro/vote-mcd/models"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateBallot = errors.New("ballot already recorded for this fingerprint")
	ErrInvalidStatus   = errors.New("status must be open or closed")
	ErrEmptyBallot     = errors.New("ballot must reference at least one option")
)

// Publisher receives changes after they are committed.
type Publisher interface {
	Publish(change models.Change)
}

type nopPublisher struct{}

func (nopPublisher) Publish(models.Change) {}

// Store is the data service shared by the HTTP handlers. It is constructed
// once in main and passed to every component that needs it.
type Store struct {
	db  *sql.DB
	pub Publisher
}

// New wraps an open database. pub may be nil when nobody listens for
// changes.
func New(db *sql.DB, pub Publisher) *Store {
	if pub == nil {
		pub = nopPublisher{}
	}
	return &Store{db: db, pub: pub}
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *sql.DB {
	return s.db
}

// isUniqueViolation reports whether err is a uniqueness or primary key
// violation from either supported driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}

	return false
}
