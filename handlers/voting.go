// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dncmaduro/vote-mcd/apierr"
	"github.com/dncmaduro/vote-mcd/auth"
	"github.com/dncmaduro/vote-mcd/cliparse"
	"github.com/dncmaduro/vote-mcd/middleware"
	"github.com/dncmaduro/vote-mcd/models"
	"github.com/dncmaduro/vote-mcd/store"
)

type VotingHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewVotingHandler(st *store.Store, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{store: st, cfg: cfg}
}

// SubmitVote handles POST /api/vote
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Parse request
	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.WriteError(w, apierr.New(apierr.KindShape, "Invalid JSON"))
		return
	}

	// Shape validation, before touching the database
	if req.Fingerprint == "" || (req.EventID == "" && req.EventSlug == "") {
		middleware.WriteError(w, apierr.New(apierr.KindShape, "Missing fields: fingerprint, eventId|eventSlug"))
		return
	}
	if len(req.OptionIDs) == 0 {
		middleware.WriteError(w, apierr.New(apierr.KindShape, "Missing field: optionIds"))
		return
	}
	maxVotes := h.cfg.EffectiveMaxVotes()
	if len(req.OptionIDs) > maxVotes {
		middleware.WriteError(w, apierr.New(apierr.KindShape, fmt.Sprintf("Too many selections. Max is %d.", maxVotes)))
		return
	}

	optionIDs := dedupe(req.OptionIDs)
	if len(optionIDs) == 0 {
		middleware.WriteError(w, apierr.New(apierr.KindShape, "Missing field: optionIds"))
		return
	}

	// Resolve event
	event, err := h.store.ResolveEvent(ctx, req.EventID, req.EventSlug)
	if errors.Is(err, store.ErrNotFound) {
		middleware.WriteError(w, apierr.New(apierr.KindNotFound, "Event not found"))
		return
	}
	if err != nil {
		slog.Error("failed to resolve event", "error", err, "event_id", req.EventID, "event_slug", req.EventSlug)
		middleware.WriteError(w, apierr.Wrap(apierr.KindTransient, "Database error", err))
		return
	}

	// Status may still flip before the insert below; such a ballot is kept.
	if !event.IsOpen() {
		middleware.WriteError(w, apierr.New(apierr.KindClosed, "Voting is closed"))
		return
	}

	// Every option must belong to this event
	options, err := h.store.Options(ctx, event.ID)
	if err != nil {
		slog.Error("failed to query options", "error", err, "event_id", event.ID)
		middleware.WriteError(w, apierr.Wrap(apierr.KindTransient, "Database error", err))
		return
	}
	valid := make(map[string]bool, len(options))
	for _, o := range options {
		valid[o.ID] = true
	}
	var invalid []string
	for _, id := range optionIDs {
		if !valid[id] {
			invalid = append(invalid, id)
		}
	}
	if len(invalid) > 0 {
		middleware.WriteError(w, apierr.InvalidOptions(invalid))
		return
	}

	fpHash := auth.HashFingerprint(req.Fingerprint, h.cfg.FingerprintSalt)
	ballot := models.Ballot{
		EventID:         event.ID,
		OptionIDs:       optionIDs,
		FingerprintHash: fpHash,
		IPHash:          auth.HashIP(middleware.GetClientIP(r), h.cfg.FingerprintSalt),
		UserAgent:       r.UserAgent(),
	}

	// The unique constraint is the only duplicate check
	ballot, err = h.store.InsertBallot(ctx, ballot)
	if errors.Is(err, store.ErrDuplicateBallot) {
		slog.Info("duplicate ballot rejected", "event_id", event.ID, "fp", fpHash[:8])
		middleware.WriteError(w, apierr.New(apierr.KindConflict, "Already voted"))
		return
	}
	if err != nil {
		slog.Error("failed to insert ballot", "error", err, "event_id", event.ID)
		middleware.WriteError(w, apierr.Wrap(apierr.KindTransient, "Failed to submit ballot", err))
		return
	}

	slog.Info("ballot accepted", "event_id", event.ID, "ballot_id", ballot.ID, "options", len(optionIDs), "fp", fpHash[:8])

	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// dedupe drops empty and repeated ids, keeping first occurrences in order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
