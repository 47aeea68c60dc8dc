// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package apierr classifies failures of the public and admin surface into the
// kinds callers react to.
package apierr

import (
	"errors"
	"net/http"
)

// Kind is the category of a failure.
type Kind int

const (
	KindTransient Kind = iota // network or infrastructure failure
	KindShape                 // malformed or missing request fields
	KindAuth                  // missing or incorrect admin secret
	KindNotFound              // unknown event or slug
	KindClosed                // voting not open at write time
	KindConflict              // ballot already recorded for this device
)

// Wire codes carried in ErrorResponse.Code
const (
	CodeTransient = "TRANSIENT"
	CodeShape     = "INVALID_REQUEST"
	CodeAuth      = "FORBIDDEN"
	CodeNotFound  = "NOT_FOUND"
	CodeClosed    = "VOTING_CLOSED"
	CodeConflict  = "ALREADY_VOTED"
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindShape:
		return http.StatusBadRequest
	case KindAuth, KindClosed:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Code returns the machine-readable wire code for the kind.
func (k Kind) Code() string {
	switch k {
	case KindShape:
		return CodeShape
	case KindAuth:
		return CodeAuth
	case KindNotFound:
		return CodeNotFound
	case KindClosed:
		return CodeClosed
	case KindConflict:
		return CodeConflict
	}
	return CodeTransient
}

func (k Kind) String() string {
	switch k {
	case KindShape:
		return "shape"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindClosed:
		return "closed"
	case KindConflict:
		return "conflict"
	}
	return "transient"
}

// Error is a classified failure.
type Error struct {
	Kind    Kind
	Message string   // short, safe to show to the caller
	Invalid []string // offending option ids, shape errors only
	Cause   error    // underlying error, never serialized
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind around cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// InvalidOptions reports option ids that do not belong to the event.
func InvalidOptions(ids []string) *Error {
	return &Error{Kind: KindShape, Message: "Invalid optionIds for this event", Invalid: ids}
}

// Sentinels for errors.Is matching by kind.
var (
	ErrShape     = &Error{Kind: KindShape}
	ErrAuth      = &Error{Kind: KindAuth}
	ErrNotFound  = &Error{Kind: KindNotFound}
	ErrClosed    = &Error{Kind: KindClosed}
	ErrConflict  = &Error{Kind: KindConflict}
	ErrTransient = &Error{Kind: KindTransient}
)

// KindOf returns the kind of err. Unclassified errors are transient.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransient
}

// FromCode maps a wire code back to its kind.
func FromCode(code string) (Kind, bool) {
	switch code {
	case CodeShape:
		return KindShape, true
	case CodeAuth:
		return KindAuth, true
	case CodeNotFound:
		return KindNotFound, true
	case CodeClosed:
		return KindClosed, true
	case CodeConflict:
		return KindConflict, true
	case CodeTransient:
		return KindTransient, true
	}
	return KindTransient, false
}

// FromStatus maps an HTTP status to a kind when no wire code is available.
// A bare 403 is ambiguous; forbidden says which kind the caller's endpoint
// means by it.
func FromStatus(status int, forbidden Kind) Kind {
	switch status {
	case http.StatusBadRequest:
		return KindShape
	case http.StatusForbidden, http.StatusUnauthorized:
		return forbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	}
	return KindTransient
}
