// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"time"

	"github.com/dncmaduro/vote-mcd/db"
	"github.com/dncmaduro/vote-mcd/models"
)

// Seed inserts the given event and its options unless an event with the same
// slug already exists. It reports whether anything was created.
func (s *Store) Seed(ctx context.Context, seed db.SeedEvent, opensAt time.Time, closesAt *time.Time) (bool, error) {
	_, err := s.EventBySlug(ctx, seed.Slug)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, err
	}

	event, err := s.CreateEvent(ctx, models.Event{
		Slug:        seed.Slug,
		Title:       seed.Title,
		Description: seed.Description,
		Status:      seed.Status,
		OpensAt:     &opensAt,
		ClosesAt:    closesAt,
	})
	if err != nil {
		return false, err
	}

	for i, label := range seed.Options {
		_, err := s.AddOption(ctx, models.Option{
			EventID:   event.ID,
			Label:     label,
			SortOrder: i + 1,
		})
		if err != nil {
			return false, err
		}
	}
	return true, nil
}
