// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dncmaduro/vote-mcd/apierr"
	"github.com/dncmaduro/vote-mcd/cliparse"
	"github.com/dncmaduro/vote-mcd/middleware"
	"github.com/dncmaduro/vote-mcd/models"
	"github.com/dncmaduro/vote-mcd/store"
)

type EventHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewEventHandler(st *store.Store, cfg cliparse.Config) *EventHandler {
	return &EventHandler{store: st, cfg: cfg}
}

// GetPublicEvent handles GET /api/events/{slug}/public
func (h *EventHandler) GetPublicEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := r.PathValue("slug")
	if slug == "" {
		middleware.WriteError(w, apierr.New(apierr.KindShape, "Missing slug"))
		return
	}

	event, err := h.store.EventBySlug(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		middleware.WriteError(w, apierr.New(apierr.KindNotFound, "Event not found"))
		return
	}
	if err != nil {
		slog.Error("failed to query event", "error", err, "slug", slug)
		middleware.WriteError(w, apierr.Wrap(apierr.KindTransient, "Database error", err))
		return
	}

	// Fall back to the configured window so clients can show a countdown
	if event.OpensAt == nil && !h.cfg.VoteStartAt.IsZero() {
		start := h.cfg.VoteStartAt
		event.OpensAt = &start
	}
	if event.ClosesAt == nil && h.cfg.VoteEndAt != nil {
		end := *h.cfg.VoteEndAt
		event.ClosesAt = &end
	}

	options, err := h.store.Options(ctx, event.ID)
	if err != nil {
		slog.Error("failed to query options", "error", err, "event_id", event.ID)
		middleware.WriteError(w, apierr.Wrap(apierr.KindTransient, "Database error", err))
		return
	}

	counts, err := h.store.Counts(ctx, event.ID)
	if err != nil {
		slog.Error("failed to query counts", "error", err, "event_id", event.ID)
		middleware.WriteError(w, apierr.Wrap(apierr.KindTransient, "Database error", err))
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PublicEventResponse{
		Event:    event,
		Options:  options,
		Counts:   counts,
		MaxVotes: h.cfg.EffectiveMaxVotes(),
	})
}
