// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"log/slog"
	"net/http"

	"github.com/dncmaduro/vote-mcd/cliparse"
	"github.com/dncmaduro/vote-mcd/handlers"
	"github.com/dncmaduro/vote-mcd/middleware"
	"github.com/dncmaduro/vote-mcd/realtime"
	"github.com/dncmaduro/vote-mcd/store"
)

func NewRouter(st *store.Store, hub *realtime.Hub, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	eventHandler := handlers.NewEventHandler(st, cfg)
	votingHandler := handlers.NewVotingHandler(st, cfg)
	resultsHandler := handlers.NewResultsHandler(st, cfg)
	adminHandler := handlers.NewAdminHandler(st, cfg)
	liveHandler := handlers.NewLiveHandler(st, hub)

	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAdminSecret(cfg.AdminSecret, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := st.DB().PingContext(r.Context()); err != nil {
			slog.Error("health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("database unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Public
	mux.HandleFunc("GET /api/events/{slug}/public", middleware.WithLogging(eventHandler.GetPublicEvent))
	mux.HandleFunc("GET /api/events/{slug}/results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /api/events/{eventId}/live", middleware.WithLogging(liveHandler.Stream))
	mux.HandleFunc("POST /api/vote", middleware.WithLogging(votingHandler.SubmitVote))

	// Admin (requires X-Admin-Secret)
	mux.HandleFunc("GET /api/admin/events", admin(adminHandler.ListEvents))
	mux.HandleFunc("POST /api/admin/events/{eventId}/vote-status", admin(adminHandler.SetVoteStatus))
	mux.HandleFunc("GET /api/admin/events/{eventId}/transitions", admin(adminHandler.GetTransitions))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("vote-mcd API v1"))
	})

	return mux
}
