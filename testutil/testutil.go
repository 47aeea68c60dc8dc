// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/dncmaduro/vote-mcd/auth"
	"github.com/dncmaduro/vote-mcd/cliparse"
	"github.com/dncmaduro/vote-mcd/db"
	"github.com/dncmaduro/vote-mcd/models"
	"github.com/dncmaduro/vote-mcd/store"
)

// Test secrets shared by handler and router tests
const (
	TestAdminSecret     = "test-admin-secret"
	TestFingerprintSalt = "test-fingerprint-salt"
)

// SetupTestDB creates a fresh SQLite database with the full schema in a
// temporary directory. It is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(cliparse.DatabaseSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, cliparse.DatabaseSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	start, _ := time.Parse(time.RFC3339, cliparse.DefaultVoteStartAt)
	return cliparse.Config{
		Port:            3318,
		DatabaseURL:     "file:test.db",
		DatabaseType:    cliparse.DatabaseSQLite,
		AdminSecret:     TestAdminSecret,
		FingerprintSalt: TestFingerprintSalt,
		MaxVotes:        models.DefaultMaxVotes,
		VoteStartAt:     start,
	}
}

// CreateTestEvent creates an event with the given slug and status and
// returns it.
func CreateTestEvent(t *testing.T, st *store.Store, slug, status string) models.Event {
	t.Helper()

	event, err := st.CreateEvent(context.Background(), models.Event{
		Slug:        slug,
		Title:       "Test Event " + slug,
		Description: "A test event",
		Status:      status,
	})
	if err != nil {
		t.Fatalf("Failed to create test event: %v", err)
	}
	return event
}

// AddTestOption adds an option to an event and returns its ID
func AddTestOption(t *testing.T, st *store.Store, eventID, label string, sortOrder int) string {
	t.Helper()

	option, err := st.AddOption(context.Background(), models.Option{
		EventID:   eventID,
		Label:     label,
		SortOrder: sortOrder,
	})
	if err != nil {
		t.Fatalf("Failed to create test option: %v", err)
	}
	return option.ID
}

// SubmitTestBallot records a ballot for fingerprint directly in the store
func SubmitTestBallot(t *testing.T, st *store.Store, eventID, fingerprint string, optionIDs ...string) {
	t.Helper()

	_, err := st.InsertBallot(context.Background(), models.Ballot{
		EventID:         eventID,
		OptionIDs:       optionIDs,
		FingerprintHash: auth.HashFingerprint(fingerprint, TestFingerprintSalt),
	})
	if err != nil {
		t.Fatalf("Failed to create test ballot: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AdminHeaders returns the header map carrying the test admin secret
func AdminHeaders() map[string]string {
	return map[string]string{"x-admin-secret": TestAdminSecret}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
