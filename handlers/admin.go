// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dncmaduro/vote-mcd/apierr"
	"github.com/dncmaduro/vote-mcd/cliparse"
	"github.com/dncmaduro/vote-mcd/locale"
	"github.com/dncmaduro/vote-mcd/middleware"
	"github.com/dncmaduro/vote-mcd/models"
	"github.com/dncmaduro/vote-mcd/store"
)

// AdminHandler serves the admin panel. Routes are expected to be wrapped
// with middleware.RequireAdminSecret.
type AdminHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewAdminHandler(st *store.Store, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{store: st, cfg: cfg}
}

// ListEvents handles GET /api/admin/events
// Open events come first, then titles in the request locale's collation.
func (h *AdminHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.store.ListEvents(r.Context())
	if err != nil {
		slog.Error("failed to list events", "error", err)
		middleware.WriteError(w, apierr.Wrap(apierr.KindTransient, "Database error", err))
		return
	}

	tag, persist := locale.Resolve(r)
	if persist {
		locale.SetCookie(w, tag)
	}
	locale.SortEvents(events, tag)

	middleware.JSONResponse(w, http.StatusOK, models.AdminEventsResponse{Events: events})
}

// SetVoteStatus handles POST /api/admin/events/{eventId}/vote-status
func (h *AdminHandler) SetVoteStatus(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventId")
	if eventID == "" {
		middleware.WriteError(w, apierr.New(apierr.KindShape, "Missing eventId"))
		return
	}

	var req models.SetVoteStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.WriteError(w, apierr.New(apierr.KindShape, "Invalid JSON"))
		return
	}
	if req.Status != models.StatusOpen && req.Status != models.StatusClosed {
		middleware.WriteError(w, apierr.New(apierr.KindShape, "status must be open|closed"))
		return
	}

	changed, err := h.store.SetEventStatus(r.Context(), eventID, req.Status)
	if errors.Is(err, store.ErrNotFound) {
		middleware.WriteError(w, apierr.New(apierr.KindNotFound, "Event not found"))
		return
	}
	if err != nil {
		slog.Error("failed to update event status", "error", err, "event_id", eventID)
		middleware.WriteError(w, apierr.Wrap(apierr.KindTransient, "Failed to update status", err))
		return
	}

	slog.Info("event status set", "event_id", eventID, "status", req.Status, "changed", changed)

	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// GetTransitions handles GET /api/admin/events/{eventId}/transitions
func (h *AdminHandler) GetTransitions(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventId")

	if _, err := h.store.EventByID(r.Context(), eventID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteError(w, apierr.New(apierr.KindNotFound, "Event not found"))
			return
		}
		slog.Error("failed to query event", "error", err, "event_id", eventID)
		middleware.WriteError(w, apierr.Wrap(apierr.KindTransient, "Database error", err))
		return
	}

	transitions, err := h.store.StatusTransitions(r.Context(), eventID)
	if err != nil {
		slog.Error("failed to query transitions", "error", err, "event_id", eventID)
		middleware.WriteError(w, apierr.Wrap(apierr.KindTransient, "Database error", err))
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TransitionsResponse{Transitions: transitions})
}
