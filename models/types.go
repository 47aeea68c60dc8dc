// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Event status constants
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// DefaultMaxVotes is the number of options a ballot may reference when
// MAX_VOTES is not configured.
const DefaultMaxVotes = 3

// NormalizeStatus lowercases and trims a status value. Unknown values are
// returned as-is so callers can reject them.
func NormalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// ValidStatus reports whether status is one of open or closed.
func ValidStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusOpen, StatusClosed:
		return true
	}
	return false
}

// Request types

type VoteRequest struct {
	EventID     string   `json:"eventId,omitempty"`
	EventSlug   string   `json:"eventSlug,omitempty"`
	OptionIDs   []string `json:"optionIds"`
	Fingerprint string   `json:"fingerprint"`
}

type SetVoteStatusRequest struct {
	Status string `json:"status"`
}

// Response types

type OKResponse struct {
	OK bool `json:"ok"`
}

type PublicEventResponse struct {
	Event    Event       `json:"event"`
	Options  []Option    `json:"options"`
	Counts   []VoteCount `json:"counts"`
	MaxVotes int         `json:"max_votes"`
}

type AdminEventsResponse struct {
	Events []Event `json:"events"`
}

type TransitionsResponse struct {
	Transitions []StatusTransition `json:"transitions"`
}

type ResultsResponse struct {
	Event     Event      `json:"event"`
	Standings []Standing `json:"standings"`
	Ballots   int64      `json:"ballots"`
}

// Domain types

type Event struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	OpensAt     *time.Time `json:"opens_at,omitempty"`
	ClosesAt    *time.Time `json:"closes_at,omitempty"`
}

// IsOpen reports whether the event currently accepts ballots.
func (e Event) IsOpen() bool {
	return NormalizeStatus(e.Status) == StatusOpen
}

type Option struct {
	ID        string `json:"id"`
	EventID   string `json:"event_id"`
	Label     string `json:"label"`
	SortOrder int    `json:"sort_order"`
}

type Ballot struct {
	ID              string    `json:"id"`
	EventID         string    `json:"event_id"`
	OptionIDs       []string  `json:"option_ids"`
	FingerprintHash string    `json:"-"` // Never expose in JSON
	IPHash          string    `json:"-"` // Never expose in JSON
	UserAgent       string    `json:"-"` // Never expose in JSON
	SubmittedAt     time.Time `json:"submitted_at"`
}

type VoteCount struct {
	EventID  string `json:"event_id,omitempty"`
	OptionID string `json:"option_id"`
	Count    int64  `json:"count"`
}

// Standing is one ranked row of the live results board.
type Standing struct {
	Rank      int    `json:"rank"` // 1-indexed, ties share a rank
	OptionID  string `json:"option_id"`
	Label     string `json:"label"`
	SortOrder int    `json:"sort_order"`
	Votes     int64  `json:"votes"`
}

type StatusTransition struct {
	EventID    string    `json:"event_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ChangedAt  time.Time `json:"changed_at"`
}

// Realtime change types

// Change kinds pushed over the live channel
const (
	ChangeEventStatus = "event_status"
	ChangeVoteCount   = "vote_count"
)

// Change is one pushed notification scoped to a single event. New holds the
// changed row; receivers decode only the fields they understand and ignore
// anything partial or unrecognized.
type Change struct {
	Kind    string          `json:"kind"`
	EventID string          `json:"event_id"`
	New     json.RawMessage `json:"new,omitempty"`
}

type EventStatusPayload struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Error response

type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Code    string   `json:"code,omitempty"`
	Invalid []string `json:"invalid,omitempty"`
}
