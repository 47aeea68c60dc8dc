// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dncmaduro/vote-mcd/db"
	"github.com/dncmaduro/vote-mcd/models"
	"github.com/dncmaduro/vote-mcd/store"
	"github.com/dncmaduro/vote-mcd/testutil"
)

type recordingPublisher struct {
	mu      sync.Mutex
	changes []models.Change
}

func (p *recordingPublisher) Publish(c models.Change) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, c)
}

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	kinds := make([]string, len(p.changes))
	for i, c := range p.changes {
		kinds[i] = c.Kind
	}
	return kinds
}

func newStore(t *testing.T) (*store.Store, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	return store.New(testutil.SetupTestDB(t), pub), pub
}

func TestEventLookup(t *testing.T) {
	st, _ := newStore(t)
	ctx := context.Background()

	opens := time.Date(2026, 2, 7, 8, 0, 0, 0, time.UTC)
	created, err := st.CreateEvent(ctx, models.Event{Slug: "yep", Title: "YEP", OpensAt: &opens})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.StatusClosed, created.Status, "status defaults to closed")

	byID, err := st.EventByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "yep", byID.Slug)
	require.NotNil(t, byID.OpensAt)
	assert.True(t, opens.Equal(*byID.OpensAt))
	assert.Nil(t, byID.ClosesAt)

	bySlug, err := st.EventBySlug(ctx, "yep")
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySlug.ID)

	resolved, err := st.ResolveEvent(ctx, "", "yep")
	require.NoError(t, err)
	assert.Equal(t, created.ID, resolved.ID)

	_, err = st.EventByID(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.EventBySlug(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.ResolveEvent(ctx, "", "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateEvent_DuplicateSlug(t *testing.T) {
	st, _ := newStore(t)
	ctx := context.Background()

	_, err := st.CreateEvent(ctx, models.Event{Slug: "dup", Title: "One"})
	require.NoError(t, err)
	_, err = st.CreateEvent(ctx, models.Event{Slug: "dup", Title: "Two"})
	assert.Error(t, err)

	_, err = st.CreateEvent(ctx, models.Event{Slug: "bad", Title: "Bad", Status: "draft"})
	assert.ErrorIs(t, err, store.ErrInvalidStatus)
}

func TestOptions_StableOrder(t *testing.T) {
	st, _ := newStore(t)
	ctx := context.Background()
	event := testutil.CreateTestEvent(t, st, "order", models.StatusOpen)

	// Same sort order falls back to insertion order
	c := testutil.AddTestOption(t, st, event.ID, "C", 2)
	a := testutil.AddTestOption(t, st, event.ID, "A", 1)
	b := testutil.AddTestOption(t, st, event.ID, "B", 1)

	options, err := st.Options(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, options, 3)
	assert.Equal(t, []string{a, b, c}, []string{options[0].ID, options[1].ID, options[2].ID})
}

func TestInsertBallot_CountsAndDuplicates(t *testing.T) {
	st, pub := newStore(t)
	ctx := context.Background()
	event := testutil.CreateTestEvent(t, st, "ballots", models.StatusOpen)
	opt1 := testutil.AddTestOption(t, st, event.ID, "One", 1)
	opt2 := testutil.AddTestOption(t, st, event.ID, "Two", 2)

	ballot := models.Ballot{EventID: event.ID, OptionIDs: []string{opt1, opt2}, FingerprintHash: "hash-a"}
	_, err := st.InsertBallot(ctx, ballot)
	require.NoError(t, err)

	_, err = st.InsertBallot(ctx, models.Ballot{EventID: event.ID, OptionIDs: []string{opt1}, FingerprintHash: "hash-b"})
	require.NoError(t, err)

	_, err = st.InsertBallot(ctx, ballot)
	assert.ErrorIs(t, err, store.ErrDuplicateBallot)

	_, err = st.InsertBallot(ctx, models.Ballot{EventID: event.ID, FingerprintHash: "hash-c"})
	assert.ErrorIs(t, err, store.ErrEmptyBallot)

	n, err := st.BallotCount(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	counts, err := st.Counts(ctx, event.ID)
	require.NoError(t, err)
	byOption := map[string]int64{}
	for _, c := range counts {
		byOption[c.OptionID] = c.Count
	}
	assert.Equal(t, int64(2), byOption[opt1])
	assert.Equal(t, int64(1), byOption[opt2])

	// One change per referenced option of each accepted ballot
	assert.Equal(t, []string{models.ChangeVoteCount, models.ChangeVoteCount, models.ChangeVoteCount}, pub.kinds())
}

func TestInsertBallot_ConcurrentSameFingerprint(t *testing.T) {
	st, _ := newStore(t)
	ctx := context.Background()
	event := testutil.CreateTestEvent(t, st, "race", models.StatusOpen)
	opt := testutil.AddTestOption(t, st, event.ID, "Only", 1)

	var accepted, duplicates atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := st.InsertBallot(ctx, models.Ballot{EventID: event.ID, OptionIDs: []string{opt}, FingerprintHash: "same"})
			switch {
			case err == nil:
				accepted.Add(1)
			case errors.Is(err, store.ErrDuplicateBallot):
				duplicates.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), accepted.Load())
	assert.Equal(t, int32(9), duplicates.Load())

	counts, err := st.Counts(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, int64(1), counts[0].Count)
}

func TestSetEventStatus_Transitions(t *testing.T) {
	st, pub := newStore(t)
	ctx := context.Background()
	event := testutil.CreateTestEvent(t, st, "toggle", models.StatusOpen)

	changed, err := st.SetEventStatus(ctx, event.ID, models.StatusOpen)
	require.NoError(t, err)
	assert.False(t, changed, "same status is not a transition")

	changed, err = st.SetEventStatus(ctx, event.ID, "CLOSED")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = st.SetEventStatus(ctx, event.ID, models.StatusOpen)
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := st.EventByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOpen, got.Status)

	transitions, err := st.StatusTransitions(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, transitions, 2)
	assert.Equal(t, models.StatusOpen, transitions[0].FromStatus)
	assert.Equal(t, models.StatusClosed, transitions[0].ToStatus)
	assert.Equal(t, models.StatusClosed, transitions[1].FromStatus)
	assert.Equal(t, models.StatusOpen, transitions[1].ToStatus)

	assert.Equal(t, []string{models.ChangeEventStatus, models.ChangeEventStatus}, pub.kinds())

	_, err = st.SetEventStatus(ctx, "missing", models.StatusClosed)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.SetEventStatus(ctx, event.ID, "paused")
	assert.ErrorIs(t, err, store.ErrInvalidStatus)
}

func TestListEvents(t *testing.T) {
	st, _ := newStore(t)
	ctx := context.Background()

	events, err := st.ListEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)

	testutil.CreateTestEvent(t, st, "first", models.StatusClosed)
	testutil.CreateTestEvent(t, st, "second", models.StatusOpen)

	events, err = st.ListEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestSeed(t *testing.T) {
	st, _ := newStore(t)
	ctx := context.Background()
	seed, err := db.DefaultSeed()
	require.NoError(t, err)
	opens := time.Date(2026, 2, 7, 8, 0, 0, 0, time.UTC)

	created, err := st.Seed(ctx, seed, opens, nil)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = st.Seed(ctx, seed, opens, nil)
	require.NoError(t, err)
	assert.False(t, created, "second seed is a no-op")

	event, err := st.EventBySlug(ctx, seed.Slug)
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, event.Status)

	options, err := st.Options(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, options, len(seed.Options))
	assert.Equal(t, seed.Options[0], options[0].Label)
	assert.Equal(t, seed.Options[9], options[9].Label)
}
