// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dncmaduro/vote-mcd/models"
)

const eventColumns = `id, slug, title, description, status, opens_at, closes_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (models.Event, error) {
	var (
		e        models.Event
		opensAt  sql.NullTime
		closesAt sql.NullTime
	)
	if err := row.Scan(&e.ID, &e.Slug, &e.Title, &e.Description, &e.Status, &opensAt, &closesAt); err != nil {
		return models.Event{}, err
	}
	if opensAt.Valid {
		t := opensAt.Time
		e.OpensAt = &t
	}
	if closesAt.Valid {
		t := closesAt.Time
		e.ClosesAt = &t
	}
	return e, nil
}

// EventByID returns the event with the given id or ErrNotFound.
func (s *Store) EventByID(ctx context.Context, id string) (models.Event, error) {
	e, err := scanEvent(s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM event WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Event{}, ErrNotFound
	}
	if err != nil {
		return models.Event{}, fmt.Errorf("query event %s: %w", id, err)
	}
	return e, nil
}

// EventBySlug returns the event with the given public slug or ErrNotFound.
func (s *Store) EventBySlug(ctx context.Context, slug string) (models.Event, error) {
	e, err := scanEvent(s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM event WHERE slug = $1`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Event{}, ErrNotFound
	}
	if err != nil {
		return models.Event{}, fmt.Errorf("query event by slug %s: %w", slug, err)
	}
	return e, nil
}

// ResolveEvent looks the event up by id when one is given, otherwise by slug.
func (s *Store) ResolveEvent(ctx context.Context, id, slug string) (models.Event, error) {
	if id != "" {
		return s.EventByID(ctx, id)
	}
	if slug != "" {
		return s.EventBySlug(ctx, slug)
	}
	return models.Event{}, ErrNotFound
}

// ListEvents returns every event in creation order.
func (s *Store) ListEvents(ctx context.Context) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM event ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// CreateEvent inserts a new event. Missing id and status default to a random
// id and closed.
func (s *Store) CreateEvent(ctx context.Context, e models.Event) (models.Event, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.Status = models.NormalizeStatus(e.Status)
	if e.Status == "" {
		e.Status = models.StatusClosed
	}
	if !models.ValidStatus(e.Status) {
		return models.Event{}, ErrInvalidStatus
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO event (id, slug, title, description, status, opens_at, closes_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, e.ID, e.Slug, e.Title, e.Description, e.Status, e.OpensAt, e.ClosesAt, time.Now().UTC())
	if err != nil {
		return models.Event{}, fmt.Errorf("insert event: %w", err)
	}
	return e, nil
}

// SetEventStatus moves an event to status. It reports whether the stored
// status actually changed; only real transitions are logged and published.
func (s *Store) SetEventStatus(ctx context.Context, eventID, status string) (bool, error) {
	status = models.NormalizeStatus(status)
	if !models.ValidStatus(status) {
		return false, ErrInvalidStatus
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE event SET status = $1 WHERE id = $2 AND status <> $1`, status, eventID)
	if err != nil {
		return false, fmt.Errorf("update event status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update event status: %w", err)
	}

	if n == 0 {
		var exists bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM event WHERE id = $1)`, eventID).Scan(&exists)
		if err != nil {
			return false, fmt.Errorf("query event %s: %w", eventID, err)
		}
		if !exists {
			return false, ErrNotFound
		}
		return false, nil
	}

	// Only two statuses exist, so the previous one is the other.
	from := models.StatusOpen
	if status == models.StatusOpen {
		from = models.StatusClosed
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO event_status_log (id, event_id, from_status, to_status, changed_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), eventID, from, status, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("insert status log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit status change: %w", err)
	}

	s.pub.Publish(models.NewStatusChange(eventID, status))
	return true, nil
}

// StatusTransitions returns the recorded transitions of an event, oldest
// first.
func (s *Store) StatusTransitions(ctx context.Context, eventID string) ([]models.StatusTransition, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT event_id, from_status, to_status, changed_at
		FROM event_status_log
		WHERE event_id = $1
		ORDER BY changed_at, id
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("query status log: %w", err)
	}
	defer rows.Close()

	transitions := []models.StatusTransition{}
	for rows.Next() {
		var st models.StatusTransition
		if err := rows.Scan(&st.EventID, &st.FromStatus, &st.ToStatus, &st.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan status log: %w", err)
		}
		transitions = append(transitions, st)
	}
	return transitions, rows.Err()
}
