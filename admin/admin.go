// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package admin is the operator side of event control: it lists events and
// flips one event at a time between open and closed.
package admin

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/text/language"

	"github.com/dncmaduro/vote-mcd/locale"
	"github.com/dncmaduro/vote-mcd/models"
)

var (
	ErrUpdateInFlight = errors.New("an update for this event is already in flight")
	ErrUnknownEvent   = errors.New("event not in the loaded list")
)

// API is the admin part of the server surface. Authentication is the
// implementation's concern.
type API interface {
	AdminEvents(ctx context.Context) ([]models.Event, error)
	SetVoteStatus(ctx context.Context, eventID, status string) error
}

// Panel holds the loaded event list. At most one toggle per event may be in
// flight; toggles of different events proceed independently.
type Panel struct {
	api API
	tag language.Tag

	mu       sync.Mutex
	events   []models.Event
	updating map[string]bool
}

// NewPanel creates a panel sorting titles for tag.
func NewPanel(api API, tag language.Tag) *Panel {
	return &Panel{
		api:      api,
		tag:      tag,
		updating: make(map[string]bool),
	}
}

// Load replaces the list with the server's, open events first.
func (p *Panel) Load(ctx context.Context) error {
	events, err := p.api.AdminEvents(ctx)
	if err != nil {
		return err
	}
	locale.SortEvents(events, p.tag)

	p.mu.Lock()
	p.events = events
	p.mu.Unlock()
	return nil
}

// Toggle flips eventID to the opposite status and returns the status it
// asked for. The local row is updated only after the server accepts.
func (p *Panel) Toggle(ctx context.Context, eventID string) (string, error) {
	p.mu.Lock()
	idx := p.indexLocked(eventID)
	if idx < 0 {
		p.mu.Unlock()
		return "", ErrUnknownEvent
	}
	if p.updating[eventID] {
		p.mu.Unlock()
		return "", ErrUpdateInFlight
	}
	next := models.StatusOpen
	if p.events[idx].IsOpen() {
		next = models.StatusClosed
	}
	p.updating[eventID] = true
	p.mu.Unlock()

	err := p.api.SetVoteStatus(ctx, eventID, next)

	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.updating, eventID)

	if err != nil {
		slog.Warn("vote status update failed", "event_id", eventID, "status", next, "error", err)
		return next, err
	}

	// The list may have been reloaded meanwhile
	if idx := p.indexLocked(eventID); idx >= 0 {
		p.events[idx].Status = next
		locale.SortEvents(p.events, p.tag)
	}
	return next, nil
}

func (p *Panel) indexLocked(eventID string) int {
	for i, e := range p.events {
		if e.ID == eventID {
			return i
		}
	}
	return -1
}

// Events returns a copy of the current list.
func (p *Panel) Events() []models.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.Event(nil), p.events...)
}

// Updating reports whether a toggle for eventID is in flight.
func (p *Panel) Updating(eventID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.updating[eventID]
}
