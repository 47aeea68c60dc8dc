// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "encoding/json"

// NewStatusChange builds the change pushed when an event's status is updated.
func NewStatusChange(eventID, status string) Change {
	payload, _ := json.Marshal(EventStatusPayload{ID: eventID, Status: status})
	return Change{Kind: ChangeEventStatus, EventID: eventID, New: payload}
}

// NewCountChange builds the change pushed when an option's tally moves.
func NewCountChange(count VoteCount) Change {
	payload, _ := json.Marshal(count)
	return Change{Kind: ChangeVoteCount, EventID: count.EventID, New: payload}
}

// StatusFromChange extracts a recognized status from an event_status change.
// ok is false for other kinds, malformed payloads and statuses other than
// open or closed.
func StatusFromChange(c Change) (status string, ok bool) {
	if c.Kind != ChangeEventStatus || len(c.New) == 0 {
		return "", false
	}
	var partial struct {
		Status *string `json:"status"`
	}
	if err := json.Unmarshal(c.New, &partial); err != nil || partial.Status == nil {
		return "", false
	}
	s := NormalizeStatus(*partial.Status)
	if s != StatusOpen && s != StatusClosed {
		return "", false
	}
	return s, true
}

// CountFromChange extracts a vote count from a vote_count change.
func CountFromChange(c Change) (VoteCount, bool) {
	if c.Kind != ChangeVoteCount || len(c.New) == 0 {
		return VoteCount{}, false
	}
	var partial struct {
		OptionID *string `json:"option_id"`
		Count    *int64  `json:"count"`
	}
	if err := json.Unmarshal(c.New, &partial); err != nil || partial.OptionID == nil || partial.Count == nil {
		return VoteCount{}, false
	}
	return VoteCount{EventID: c.EventID, OptionID: *partial.OptionID, Count: *partial.Count}, true
}
