// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/dncmaduro/vote-mcd/apierr"
	"github.com/dncmaduro/vote-mcd/models"
	"github.com/dncmaduro/vote-mcd/realtime"
)

// Subscribe opens the live stream for eventID. Each call dials its own
// connection. The first change delivered is the event's current status.
func (c *Client) Subscribe(ctx context.Context, eventID string) (realtime.Subscription, error) {
	if eventID == "" {
		return nil, apierr.Wrap(apierr.KindShape, "event id required", realtime.ErrEmptyEventID)
	}

	wsURL, err := c.liveURL(eventID)
	if err != nil {
		return nil, apierr.Wrap(apierr.KindShape, "build live url", err)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusSwitchingProtocols {
				return nil, decodeError(resp, apierr.KindAuth)
			}
		}
		return nil, apierr.Wrap(apierr.KindTransient, "dial live stream", err)
	}

	sub := &liveSubscription{
		conn: conn,
		ch:   make(chan models.Change, realtime.DefaultBuffer),
		done: make(chan struct{}),
	}
	sub.stop = context.AfterFunc(ctx, sub.shutdown)
	go sub.readLoop(eventID)

	return sub, nil
}

func (c *Client) liveURL(eventID string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/events/" + url.PathEscape(eventID) + "/live"
	return u.String(), nil
}

type liveSubscription struct {
	conn      *websocket.Conn
	ch        chan models.Change
	done      chan struct{}
	stop      func() bool
	closeOnce sync.Once
}

func (s *liveSubscription) Changes() <-chan models.Change {
	return s.ch
}

// Close tears down the connection. Changes is closed once the read loop
// exits.
func (s *liveSubscription) Close() error {
	s.stop()
	s.shutdown()
	return nil
}

func (s *liveSubscription) shutdown() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

func (s *liveSubscription) readLoop(eventID string) {
	defer close(s.ch)

	for {
		var change models.Change
		if err := s.conn.ReadJSON(&change); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("live stream ended", "event_id", eventID, "error", err)
			}
			return
		}
		// Changes for other events are not ours to apply
		if change.EventID != "" && change.EventID != eventID {
			continue
		}
		select {
		case s.ch <- change:
		case <-s.done:
			return
		}
	}
}
