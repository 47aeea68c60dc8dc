// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dncmaduro/vote-mcd/models"
)

// Options returns an event's options in display order: sort_order ascending,
// ties broken by insertion order.
func (s *Store) Options(ctx context.Context, eventID string) ([]models.Option, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_id, label, sort_order
		FROM option
		WHERE event_id = $1
		ORDER BY sort_order, seq
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("query options: %w", err)
	}
	defer rows.Close()

	options := []models.Option{}
	for rows.Next() {
		var o models.Option
		if err := rows.Scan(&o.ID, &o.EventID, &o.Label, &o.SortOrder); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

// AddOption appends an option to an event.
func (s *Store) AddOption(ctx context.Context, o models.Option) (models.Option, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO option (id, event_id, label, sort_order, seq)
		VALUES ($1, $2, $3, $4, (SELECT COALESCE(MAX(seq), 0) + 1 FROM option WHERE event_id = $2))
	`, o.ID, o.EventID, o.Label, o.SortOrder)
	if err != nil {
		return models.Option{}, fmt.Errorf("insert option: %w", err)
	}
	return o, nil
}

// Counts returns the tally rows of an event. Options nobody voted for have no
// row.
func (s *Store) Counts(ctx context.Context, eventID string) ([]models.VoteCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT event_id, option_id, count
		FROM vote_count
		WHERE event_id = $1
		ORDER BY option_id
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("query counts: %w", err)
	}
	defer rows.Close()

	counts := []models.VoteCount{}
	for rows.Next() {
		var c models.VoteCount
		if err := rows.Scan(&c.EventID, &c.OptionID, &c.Count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// BallotCount returns how many ballots an event has accepted.
func (s *Store) BallotCount(ctx context.Context, eventID string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ballot WHERE event_id = $1`, eventID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count ballots: %w", err)
	}
	return n, nil
}

// InsertBallot records one ballot and bumps the tally of every option it
// references, in a single transaction. The UNIQUE (event_id,
// fingerprint_hash) constraint is the only duplicate check: a second ballot
// for the same pair returns ErrDuplicateBallot and writes nothing.
//
// Option ids are expected to be validated and deduplicated by the caller.
func (s *Store) InsertBallot(ctx context.Context, b models.Ballot) (models.Ballot, error) {
	if len(b.OptionIDs) == 0 {
		return models.Ballot{}, ErrEmptyBallot
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.SubmittedAt.IsZero() {
		b.SubmittedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Ballot{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ballot (id, event_id, fingerprint_hash, ip_hash, user_agent, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, b.ID, b.EventID, b.FingerprintHash, b.IPHash, b.UserAgent, b.SubmittedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Ballot{}, ErrDuplicateBallot
		}
		return models.Ballot{}, fmt.Errorf("insert ballot: %w", err)
	}

	counts := make([]models.VoteCount, 0, len(b.OptionIDs))
	for _, optionID := range b.OptionIDs {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO ballot_option (ballot_id, option_id)
			VALUES ($1, $2)
		`, b.ID, optionID)
		if err != nil {
			return models.Ballot{}, fmt.Errorf("insert ballot option: %w", err)
		}

		c := models.VoteCount{EventID: b.EventID, OptionID: optionID}
		err = tx.QueryRowContext(ctx, `
			INSERT INTO vote_count (event_id, option_id, count)
			VALUES ($1, $2, 1)
			ON CONFLICT (event_id, option_id) DO UPDATE SET count = vote_count.count + 1
			RETURNING count
		`, b.EventID, optionID).Scan(&c.Count)
		if err != nil {
			return models.Ballot{}, fmt.Errorf("bump vote count: %w", err)
		}
		counts = append(counts, c)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return models.Ballot{}, ErrDuplicateBallot
		}
		return models.Ballot{}, fmt.Errorf("commit ballot: %w", err)
	}

	for _, c := range counts {
		s.pub.Publish(models.NewCountChange(c))
	}
	return b, nil
}
