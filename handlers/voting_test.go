// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dncmaduro/vote-mcd/apierr"
	"github.com/dncmaduro/vote-mcd/models"
	"github.com/dncmaduro/vote-mcd/store"
	"github.com/dncmaduro/vote-mcd/testutil"
)

func voteRequest(body interface{}) *http.Request {
	var reader *bytes.Reader
	if s, ok := body.(string); ok {
		reader = bytes.NewReader([]byte(s))
	} else {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest("POST", "/api/vote", reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func ballotCount(t *testing.T, st *store.Store, eventID string) int64 {
	t.Helper()
	n, err := st.BallotCount(context.Background(), eventID)
	if err != nil {
		t.Fatalf("Failed to count ballots: %v", err)
	}
	return n
}

func TestSubmitVote(t *testing.T) {
	st, _ := setupTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(st, cfg)

	event := testutil.CreateTestEvent(t, st, "vote", models.StatusOpen)
	opt1 := testutil.AddTestOption(t, st, event.ID, "One", 1)
	opt2 := testutil.AddTestOption(t, st, event.ID, "Two", 2)
	opt3 := testutil.AddTestOption(t, st, event.ID, "Three", 3)
	opt4 := testutil.AddTestOption(t, st, event.ID, "Four", 4)

	other := testutil.CreateTestEvent(t, st, "other", models.StatusOpen)
	foreign := testutil.AddTestOption(t, st, other.ID, "Elsewhere", 1)

	testCases := []struct {
		name            string
		body            interface{}
		expectedStatus  int
		expectedMessage string
		expectedInvalid []string
	}{
		{
			name:            "invalid JSON",
			body:            `{not json`,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Invalid JSON",
		},
		{
			name:            "missing fingerprint",
			body:            models.VoteRequest{EventID: event.ID, OptionIDs: []string{opt1}},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Missing fields: fingerprint, eventId|eventSlug",
		},
		{
			name:            "missing event reference",
			body:            models.VoteRequest{OptionIDs: []string{opt1}, Fingerprint: "fp"},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Missing fields: fingerprint, eventId|eventSlug",
		},
		{
			name:            "empty optionIds",
			body:            models.VoteRequest{EventID: event.ID, OptionIDs: []string{}, Fingerprint: "fp"},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Missing field: optionIds",
		},
		{
			name:            "only blank optionIds",
			body:            models.VoteRequest{EventID: event.ID, OptionIDs: []string{""}, Fingerprint: "fp"},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Missing field: optionIds",
		},
		{
			name:            "too many selections",
			body:            models.VoteRequest{EventID: event.ID, OptionIDs: []string{opt1, opt2, opt3, opt4}, Fingerprint: "fp"},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Too many selections. Max is 3.",
		},
		{
			name:            "unknown event",
			body:            models.VoteRequest{EventSlug: "nope", OptionIDs: []string{opt1}, Fingerprint: "fp"},
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "Event not found",
		},
		{
			name:            "option from another event",
			body:            models.VoteRequest{EventID: event.ID, OptionIDs: []string{opt1, foreign, "bogus"}, Fingerprint: "fp"},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Invalid optionIds for this event",
			expectedInvalid: []string{foreign, "bogus"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.SubmitVote(w, voteRequest(tc.body))

			testutil.AssertStatus(t, w, tc.expectedStatus)

			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Message != tc.expectedMessage {
				t.Errorf("Expected message '%s', got '%s'", tc.expectedMessage, resp.Message)
			}
			if strings.Join(resp.Invalid, ",") != strings.Join(tc.expectedInvalid, ",") {
				t.Errorf("Expected invalid %v, got %v", tc.expectedInvalid, resp.Invalid)
			}
		})
	}

	// None of the rejected requests wrote anything
	if n := ballotCount(t, st, event.ID); n != 0 {
		t.Errorf("Expected no ballots after rejected requests, got %d", n)
	}
}

func TestSubmitVoteAcceptsAndDeduplicates(t *testing.T) {
	st, _ := setupTestStore(t)
	handler := NewVotingHandler(st, testutil.GetTestConfig())

	event := testutil.CreateTestEvent(t, st, "dedupe", models.StatusOpen)
	opt1 := testutil.AddTestOption(t, st, event.ID, "One", 1)
	opt2 := testutil.AddTestOption(t, st, event.ID, "Two", 2)

	// Repeated ids count once and do not trip the max check
	w := httptest.NewRecorder()
	handler.SubmitVote(w, voteRequest(models.VoteRequest{
		EventSlug:   "dedupe",
		OptionIDs:   []string{opt1, opt1, opt2},
		Fingerprint: "device-1",
	}))

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.OKResponse
	testutil.AssertJSON(t, w, &resp)
	if !resp.OK {
		t.Error("Expected ok: true")
	}

	counts, err := st.Counts(context.Background(), event.ID)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range counts {
		if c.Count != 1 {
			t.Errorf("Expected count 1 for %s, got %d", c.OptionID, c.Count)
		}
	}
	if len(counts) != 2 {
		t.Errorf("Expected 2 count rows, got %d", len(counts))
	}
}

func TestSubmitVoteTwice(t *testing.T) {
	st, _ := setupTestStore(t)
	handler := NewVotingHandler(st, testutil.GetTestConfig())

	event := testutil.CreateTestEvent(t, st, "twice", models.StatusOpen)
	opt := testutil.AddTestOption(t, st, event.ID, "Only", 1)

	body := models.VoteRequest{EventID: event.ID, OptionIDs: []string{opt}, Fingerprint: "same-device"}

	w := httptest.NewRecorder()
	handler.SubmitVote(w, voteRequest(body))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	handler.SubmitVote(w, voteRequest(body))
	testutil.AssertStatus(t, w, http.StatusConflict)

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Message != "Already voted" {
		t.Errorf("Expected 'Already voted', got '%s'", resp.Message)
	}
	if resp.Code != apierr.CodeConflict {
		t.Errorf("Expected code %s, got %s", apierr.CodeConflict, resp.Code)
	}

	if n := ballotCount(t, st, event.ID); n != 1 {
		t.Errorf("Expected exactly 1 ballot, got %d", n)
	}

	// A different device still gets in
	w = httptest.NewRecorder()
	handler.SubmitVote(w, voteRequest(models.VoteRequest{EventID: event.ID, OptionIDs: []string{opt}, Fingerprint: "other-device"}))
	testutil.AssertStatus(t, w, http.StatusOK)
}

func TestSubmitVoteToClosedEvent(t *testing.T) {
	st, _ := setupTestStore(t)
	handler := NewVotingHandler(st, testutil.GetTestConfig())

	event := testutil.CreateTestEvent(t, st, "closed", models.StatusClosed)
	opt := testutil.AddTestOption(t, st, event.ID, "Only", 1)

	w := httptest.NewRecorder()
	handler.SubmitVote(w, voteRequest(models.VoteRequest{EventID: event.ID, OptionIDs: []string{opt}, Fingerprint: "fp"}))

	testutil.AssertStatus(t, w, http.StatusForbidden)

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Message != "Voting is closed" {
		t.Errorf("Expected 'Voting is closed', got '%s'", resp.Message)
	}
	if resp.Code != apierr.CodeClosed {
		t.Errorf("Expected code %s, got %s", apierr.CodeClosed, resp.Code)
	}

	if n := ballotCount(t, st, event.ID); n != 0 {
		t.Errorf("Expected no ballots, got %d", n)
	}
}

func TestSubmitVoteRespectsConfiguredMax(t *testing.T) {
	st, _ := setupTestStore(t)
	cfg := testutil.GetTestConfig()
	cfg.MaxVotes = 1
	handler := NewVotingHandler(st, cfg)

	event := testutil.CreateTestEvent(t, st, "single", models.StatusOpen)
	opt1 := testutil.AddTestOption(t, st, event.ID, "One", 1)
	opt2 := testutil.AddTestOption(t, st, event.ID, "Two", 2)

	w := httptest.NewRecorder()
	handler.SubmitVote(w, voteRequest(models.VoteRequest{EventID: event.ID, OptionIDs: []string{opt1, opt2}, Fingerprint: "fp"}))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestDedupe(t *testing.T) {
	got := dedupe([]string{"a", "", "b", "a", "c", "b"})
	if strings.Join(got, ",") != "a,b,c" {
		t.Errorf("Expected a,b,c, got %v", got)
	}
}
