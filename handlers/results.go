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
	"github.com/dncmaduro/vote-mcd/tally"
)

type ResultsHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewResultsHandler(st *store.Store, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{store: st, cfg: cfg}
}

// GetResults handles GET /api/events/{slug}/results
// Results are live: they are served whether voting is open or closed.
// ?nonzero=1 hides options nobody voted for.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
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

	ballots, err := h.store.BallotCount(ctx, event.ID)
	if err != nil {
		slog.Error("failed to count ballots", "error", err, "event_id", event.ID)
		middleware.WriteError(w, apierr.Wrap(apierr.KindTransient, "Database error", err))
		return
	}

	standings := tally.Rank(options, counts)
	if r.URL.Query().Get("nonzero") == "1" {
		standings = tally.NonZero(standings)
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		Event:     event,
		Standings: standings,
		Ballots:   ballots,
	})
}
