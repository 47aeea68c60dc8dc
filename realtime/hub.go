// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/dncmaduro/vote-mcd/models"
)

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 16

// ErrEmptyEventID is returned when subscribing without an event scope.
var ErrEmptyEventID = errors.New("event id required")

// Subscription is one scoped stream of changes. Changes is closed after
// Close returns.
type Subscription interface {
	Changes() <-chan models.Change
	Close() error
}

// Source opens change subscriptions scoped to a single event. Every call
// returns an independent subscription with its own lifecycle.
type Source interface {
	Subscribe(ctx context.Context, eventID string) (Subscription, error)
}

// Hub fans out published changes to the subscribers of each event.
// A slow subscriber never blocks Publish; changes that do not fit in its
// buffer are dropped for that subscriber only.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[*subscription]bool
	buffer int
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subs:   make(map[string]map[*subscription]bool),
		buffer: DefaultBuffer,
	}
}

// Subscribe registers a new subscriber for eventID. The subscription is
// closed when ctx is done or Close is called, whichever comes first.
func (h *Hub) Subscribe(ctx context.Context, eventID string) (Subscription, error) {
	if eventID == "" {
		return nil, ErrEmptyEventID
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sub := &subscription{
		hub:     h,
		eventID: eventID,
		ch:      make(chan models.Change, h.buffer),
	}

	h.mu.Lock()
	if h.subs[eventID] == nil {
		h.subs[eventID] = make(map[*subscription]bool)
	}
	h.subs[eventID][sub] = true
	h.mu.Unlock()

	sub.stop = context.AfterFunc(ctx, func() { h.remove(sub) })

	return sub, nil
}

// Publish delivers change to every current subscriber of change.EventID.
func (h *Hub) Publish(change models.Change) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs[change.EventID] {
		select {
		case sub.ch <- change:
		default:
			slog.Warn("dropping change for slow subscriber",
				"event_id", change.EventID, "kind", change.Kind)
		}
	}
}

// Subscribers returns the number of open subscriptions for eventID.
func (h *Hub) Subscribers(eventID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[eventID])
}

func (h *Hub) remove(sub *subscription) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subs[sub.eventID]
	if !ok || !set[sub] {
		return false
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.subs, sub.eventID)
	}
	close(sub.ch)
	return true
}

type subscription struct {
	hub     *Hub
	eventID string
	ch      chan models.Change
	stop    func() bool
}

func (s *subscription) Changes() <-chan models.Change {
	return s.ch
}

// Close unsubscribes. Safe to call more than once.
func (s *subscription) Close() error {
	if s.stop != nil {
		s.stop()
	}
	s.hub.remove(s)
	return nil
}
