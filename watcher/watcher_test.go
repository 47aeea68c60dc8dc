// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package watcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dncmaduro/vote-mcd/models"
	"github.com/dncmaduro/vote-mcd/realtime"
	"github.com/dncmaduro/vote-mcd/session"
)

type recorder struct {
	mu      sync.Mutex
	changes []models.Change
}

func (r *recorder) Apply(c models.Change) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
	return true
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.changes)
}

func startWatch(t *testing.T, hub *realtime.Hub, eventID string, sinks ...Sink) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, hub, eventID, sinks...) }()
	require.Eventually(t, func() bool { return hub.Subscribers(eventID) == 1 }, time.Second, 5*time.Millisecond)
	return cancel, done
}

func TestWatch_DeliversRecognizedChanges(t *testing.T) {
	hub := realtime.NewHub()
	rec := &recorder{}
	cancel, done := startWatch(t, hub, "ev-1", rec)

	hub.Publish(models.NewStatusChange("ev-1", models.StatusOpen))
	hub.Publish(models.NewCountChange(models.VoteCount{EventID: "ev-1", OptionID: "a", Count: 2}))
	hub.Publish(models.Change{Kind: models.ChangeEventStatus, EventID: "ev-1", New: []byte(`{"status":"archived"}`)})
	hub.Publish(models.Change{Kind: "unknown", EventID: "ev-1"})
	hub.Publish(models.NewStatusChange("ev-2", models.StatusClosed))

	require.Eventually(t, func() bool { return rec.len() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	// Teardown unsubscribes
	assert.Equal(t, 0, hub.Subscribers("ev-1"))
}

func TestWatch_ResetsSession(t *testing.T) {
	hub := realtime.NewHub()
	api := &staticAPI{resp: models.PublicEventResponse{
		Event:    models.Event{ID: "ev-1", Slug: "show", Status: models.StatusOpen},
		Options:  []models.Option{{ID: "a", EventID: "ev-1"}, {ID: "b", EventID: "ev-1"}},
		MaxVotes: 3,
	}}
	s := session.New(api, session.Config{Slug: "show", Fingerprint: "fp"})
	require.NoError(t, s.Load(context.Background()))
	s.Toggle("a")
	s.Toggle("b")

	cancel, done := startWatch(t, hub, "ev-1", s)
	defer func() {
		cancel()
		<-done
	}()

	hub.Publish(models.NewStatusChange("ev-1", models.StatusClosed))

	require.Eventually(t, func() bool { return s.State() == session.StateClosed }, time.Second, 5*time.Millisecond)
	assert.Empty(t, s.Selected())
}

func TestWatch_IndependentSubscriptions(t *testing.T) {
	hub := realtime.NewHub()
	first, second := &recorder{}, &recorder{}

	cancelFirst, doneFirst := startWatch(t, hub, "ev-1", first)
	ctx, cancelSecond := context.WithCancel(context.Background())
	doneSecond := make(chan error, 1)
	go func() { doneSecond <- Watch(ctx, hub, "ev-1", second) }()
	require.Eventually(t, func() bool { return hub.Subscribers("ev-1") == 2 }, time.Second, 5*time.Millisecond)

	// Tearing one down leaves the other running
	cancelFirst()
	<-doneFirst
	require.Equal(t, 1, hub.Subscribers("ev-1"))

	hub.Publish(models.NewStatusChange("ev-1", models.StatusOpen))
	require.Eventually(t, func() bool { return second.len() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, first.len())

	cancelSecond()
	<-doneSecond
}

func TestWatch_StreamEnded(t *testing.T) {
	src := &closingSource{}
	err := Watch(context.Background(), src, "ev-1", &recorder{})
	assert.ErrorIs(t, err, ErrStreamEnded)
}

func TestWatch_SubscribeError(t *testing.T) {
	hub := realtime.NewHub()
	err := Watch(context.Background(), hub, "", &recorder{})
	assert.True(t, errors.Is(err, realtime.ErrEmptyEventID))
}

func TestSinkFunc(t *testing.T) {
	var got string
	sink := SinkFunc(func(c models.Change) bool { got = c.Kind; return true })
	sink.Apply(models.Change{Kind: models.ChangeVoteCount})
	assert.Equal(t, models.ChangeVoteCount, got)
}

type staticAPI struct {
	resp models.PublicEventResponse
}

func (a *staticAPI) PublicEvent(context.Context, string) (models.PublicEventResponse, error) {
	return a.resp, nil
}

func (a *staticAPI) Vote(context.Context, models.VoteRequest) error {
	return nil
}

// closingSource hands out subscriptions whose stream is already over.
type closingSource struct{}

func (closingSource) Subscribe(ctx context.Context, eventID string) (realtime.Subscription, error) {
	ch := make(chan models.Change)
	close(ch)
	return closedSub{ch: ch}, nil
}

type closedSub struct {
	ch chan models.Change
}

func (s closedSub) Changes() <-chan models.Change { return s.ch }
func (s closedSub) Close() error                  { return nil }
