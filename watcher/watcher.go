// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package watcher keeps local views of one event in step with the changes
// pushed for it.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dncmaduro/vote-mcd/models"
	"github.com/dncmaduro/vote-mcd/realtime"
)

// ErrStreamEnded is returned when the source closes the subscription
// before the context is done.
var ErrStreamEnded = errors.New("change stream ended")

// Sink receives recognized changes. session.Session is a Sink.
type Sink interface {
	Apply(change models.Change) bool
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(models.Change) bool

func (f SinkFunc) Apply(c models.Change) bool { return f(c) }

// Watch subscribes to eventID and hands every recognized change to each
// sink in order until ctx is done or the stream ends. Changes scoped to
// another event, unknown kinds and partial payloads are dropped here.
// The subscription is always closed on return.
func Watch(ctx context.Context, source realtime.Source, eventID string, sinks ...Sink) error {
	sub, err := source.Subscribe(ctx, eventID)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", eventID, err)
	}
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case change, ok := <-sub.Changes():
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return ErrStreamEnded
			}
			if !Recognized(eventID, change) {
				slog.Debug("ignoring change", "event_id", eventID, "kind", change.Kind)
				continue
			}
			for _, sink := range sinks {
				sink.Apply(change)
			}
		}
	}
}

// Recognized reports whether change is a well formed status or count change
// for eventID.
func Recognized(eventID string, change models.Change) bool {
	if change.EventID != eventID {
		return false
	}
	if _, ok := models.StatusFromChange(change); ok {
		return true
	}
	_, ok := models.CountFromChange(change)
	return ok
}
