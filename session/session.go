// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dncmaduro/vote-mcd/apierr"
	"github.com/dncmaduro/vote-mcd/models"
	"github.com/dncmaduro/vote-mcd/tally"
)

var (
	ErrSubmitInFlight  = errors.New("a submission is already in flight")
	ErrNotSubmittable  = errors.New("nothing to submit")
	ErrSessionClosed   = errors.New("session closed")
	ErrAlreadyLoaded   = errors.New("session already loaded")
	ErrMissingIdentity = errors.New("slug and fingerprint are required")
)

// State is the session's position in the voting flow.
type State int

const (
	StateLoading State = iota
	StatePreOpen
	StateLive
	StateClosed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePreOpen:
		return "pre-open"
	case StateLive:
		return "live"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	}
	return "loading"
}

// Preview forces a view regardless of the event status.
type Preview string

const (
	PreviewNone Preview = ""
	PreviewPre  Preview = "pre"
	PreviewLive Preview = "live"
)

// API is the part of the server surface a session needs.
type API interface {
	PublicEvent(ctx context.Context, slug string) (models.PublicEventResponse, error)
	Vote(ctx context.Context, req models.VoteRequest) error
}

type Config struct {
	Slug        string
	Fingerprint string
	Preview     Preview

	// DefaultOpensAt is used for the countdown when the event has no
	// opens_at of its own.
	DefaultOpensAt time.Time

	// MaxVotes applies when the server does not report max_votes.
	MaxVotes int
}

// Session is safe for concurrent use. Toggles, pushed changes and submit
// results each apply as a single locked update.
type Session struct {
	api API
	cfg Config

	mu         sync.Mutex
	state      State
	event      models.Event
	options    []models.Option
	counts     []models.VoteCount
	maxVotes   int
	selected   map[string]bool
	submitting bool
	submitted  bool
	alive      bool
	err        error
}

func New(api API, cfg Config) *Session {
	return &Session{
		api:      api,
		cfg:      cfg,
		state:    StateLoading,
		selected: make(map[string]bool),
		alive:    true,
	}
}

// Load fetches the event and settles the initial state. A failed fetch is
// terminal: the session moves to Failed and is not retried.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if !s.alive {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.state != StateLoading {
		s.mu.Unlock()
		return ErrAlreadyLoaded
	}
	s.mu.Unlock()

	if s.cfg.Slug == "" || s.cfg.Fingerprint == "" {
		s.fail(ErrMissingIdentity)
		return ErrMissingIdentity
	}

	resp, err := s.api.PublicEvent(ctx, s.cfg.Slug)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.alive {
		return ErrSessionClosed
	}
	if err != nil {
		s.state = StateFailed
		s.err = err
		return err
	}

	s.event = resp.Event
	s.options = resp.Options
	s.counts = resp.Counts
	s.maxVotes = resp.MaxVotes
	if s.maxVotes <= 0 {
		s.maxVotes = s.cfg.MaxVotes
	}
	if s.maxVotes <= 0 {
		s.maxVotes = models.DefaultMaxVotes
	}

	switch {
	case s.cfg.Preview == PreviewPre:
		s.state = StatePreOpen
	case s.cfg.Preview == PreviewLive, s.event.IsOpen():
		s.state = StateLive
	default:
		s.state = StatePreOpen
	}
	return nil
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.alive {
		s.state = StateFailed
		s.err = err
	}
}

// Toggle flips optionID in the selection. Adding is refused once MaxVotes
// are selected; removing always succeeds. It reports whether the selection
// changed. Outside Live it does nothing.
func (s *Session) Toggle(optionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.alive || s.state != StateLive || !s.hasOption(optionID) {
		return false
	}
	if s.selected[optionID] {
		delete(s.selected, optionID)
		return true
	}
	if len(s.selected) >= s.maxVotes {
		return false
	}
	s.selected[optionID] = true
	return true
}

func (s *Session) hasOption(id string) bool {
	for _, o := range s.options {
		if o.ID == id {
			return true
		}
	}
	return false
}

// Selected returns the selected option ids in display order.
func (s *Session) Selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedLocked()
}

func (s *Session) selectedLocked() []string {
	ids := make([]string, 0, len(s.selected))
	for _, o := range s.options {
		if s.selected[o.ID] {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

// IsSelected reports whether optionID is in the selection.
func (s *Session) IsSelected(optionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected[optionID]
}

// CanSubmit reports whether Submit would issue a request.
func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canSubmitLocked()
}

func (s *Session) canSubmitLocked() bool {
	return s.alive &&
		s.state == StateLive &&
		s.event.IsOpen() &&
		len(s.selected) > 0 &&
		!s.submitting &&
		!s.submitted
}

// Submit sends the current selection. It returns nil when the ballot was
// recorded, including when the server already had one from this device.
// A closed event clears the selection and moves the session to Closed.
// Other failures keep the selection so the user can retry.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return ErrSubmitInFlight
	}
	if !s.canSubmitLocked() {
		s.mu.Unlock()
		return ErrNotSubmittable
	}
	s.submitting = true
	req := models.VoteRequest{
		EventID:     s.event.ID,
		OptionIDs:   s.selectedLocked(),
		Fingerprint: s.cfg.Fingerprint,
	}
	s.mu.Unlock()

	err := s.api.Vote(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false

	if !s.alive {
		return ErrSessionClosed
	}

	switch apierr.KindOf(err) {
	case apierr.KindConflict:
		err = nil
	case apierr.KindClosed:
		s.event.Status = models.StatusClosed
		s.closeLocked()
		return err
	}
	if err != nil {
		return err
	}

	s.submitted = true
	s.selected = make(map[string]bool)
	return nil
}

// Apply folds a pushed change into the session. Changes for other events,
// unknown kinds and malformed payloads are ignored. It reports whether
// anything changed.
func (s *Session) Apply(change models.Change) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.alive || s.state == StateLoading || s.state == StateFailed {
		return false
	}
	if change.EventID != s.event.ID {
		return false
	}

	if status, ok := models.StatusFromChange(change); ok {
		prevState, prevStatus := s.state, s.event.Status
		s.event.Status = status
		if status == models.StatusOpen {
			if s.state != StatePreOpen || s.cfg.Preview != PreviewPre {
				s.state = StateLive
			}
		} else {
			s.closeLocked()
		}
		return prevState != s.state || prevStatus != status
	}

	if count, ok := models.CountFromChange(change); ok {
		s.counts = tally.Apply(s.counts, count)
		return true
	}

	return false
}

// closeLocked clears the selection and leaves Live.
func (s *Session) closeLocked() {
	s.selected = make(map[string]bool)
	if s.state == StateLive {
		s.state = StateClosed
	}
}

// Countdown returns the time left until voting opens, or zero once the
// opening time has passed or is unknown.
func (s *Session) Countdown(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	opensAt := s.cfg.DefaultOpensAt
	if s.event.OpensAt != nil {
		opensAt = *s.event.OpensAt
	}
	if opensAt.IsZero() || !now.Before(opensAt) {
		return 0
	}
	return opensAt.Sub(now)
}

// Close tears the session down. Later responses and pushes are dropped.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alive = false
	s.selected = make(map[string]bool)
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Event() models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.event
}

func (s *Session) Options() []models.Option {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Option(nil), s.options...)
}

func (s *Session) Counts() []models.VoteCount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.VoteCount(nil), s.counts...)
}

// Standings ranks the current counts for a results board.
func (s *Session) Standings() []models.Standing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return tally.Rank(s.options, s.counts)
}

func (s *Session) MaxVotes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxVotes
}

// Submitted reports whether a ballot from this device is on record.
func (s *Session) Submitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitted
}

func (s *Session) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// Err returns the load failure, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
