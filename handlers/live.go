// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dncmaduro/vote-mcd/apierr"
	"github.com/dncmaduro/vote-mcd/middleware"
	"github.com/dncmaduro/vote-mcd/models"
	"github.com/dncmaduro/vote-mcd/realtime"
	"github.com/dncmaduro/vote-mcd/store"
)

// PingInterval is how often the live stream pings idle clients.
const PingInterval = 15 * time.Second

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Public, read-only stream
	},
}

type LiveHandler struct {
	store *store.Store
	hub   *realtime.Hub
}

func NewLiveHandler(st *store.Store, hub *realtime.Hub) *LiveHandler {
	return &LiveHandler{store: st, hub: hub}
}

// Stream handles GET /api/events/{eventId}/live
// The first message is the current status; after that every committed
// change for the event is forwarded as a models.Change.
func (h *LiveHandler) Stream(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventId")

	event, err := h.store.EventByID(r.Context(), eventID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.WriteError(w, apierr.New(apierr.KindNotFound, "Event not found"))
		return
	}
	if err != nil {
		slog.Error("failed to query event", "error", err, "event_id", eventID)
		middleware.WriteError(w, apierr.Wrap(apierr.KindTransient, "Database error", err))
		return
	}

	// Subscribe before upgrading so nothing published in between is lost
	sub, err := h.hub.Subscribe(r.Context(), event.ID)
	if err != nil {
		middleware.WriteError(w, apierr.Wrap(apierr.KindTransient, "Could not subscribe", err))
		return
	}
	defer sub.Close()

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		slog.Warn("websocket upgrade failed", "error", err, "event_id", event.ID)
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(models.NewStatusChange(event.ID, event.Status)); err != nil {
		return
	}

	ticker := time.NewTicker(PingInterval)
	defer ticker.Stop()

	done := make(chan struct{})
	go drainIncoming(conn, done)

	slog.Debug("live stream opened", "event_id", event.ID, "subscribers", h.hub.Subscribers(event.ID))

	for {
		select {
		case change, ok := <-sub.Changes():
			if !ok {
				return
			}
			if err := conn.WriteJSON(change); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// drainIncoming discards client messages and closes done on disconnect.
func drainIncoming(conn *websocket.Conn, done chan struct{}) {
	defer close(done)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
