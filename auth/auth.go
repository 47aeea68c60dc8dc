// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidAdminSecret = errors.New("invalid admin secret")
	ErrAdminNotConfigured = errors.New("admin secret not configured")
)

// NewID returns a random identifier for database records.
func NewID() string {
	return uuid.NewString()
}

// NewFingerprint creates the identifier a device stores once and reuses for
// every ballot it submits.
func NewFingerprint() string {
	return uuid.NewString()
}

// HashFingerprint derives the uniqueness key for a device's ballot.
// The raw fingerprint and the salt never leave the server; only this digest
// is stored.
func HashFingerprint(fingerprint, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(fingerprint))
	return hex.EncodeToString(h.Sum(nil))
}

// ValidateAdminSecret compares the header value against the configured secret
// in constant time. An empty configured secret rejects everyone.
func ValidateAdminSecret(provided, expected string) error {
	if expected == "" {
		return ErrAdminNotConfigured
	}
	if provided == "" {
		return ErrInvalidAdminSecret
	}
	p := sha256.Sum256([]byte(provided))
	e := sha256.Sum256([]byte(expected))
	if !hmac.Equal(p[:], e[:]) {
		return ErrInvalidAdminSecret
	}
	return nil
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte("ip:" + ip))
	sum := h.Sum(nil)
	// First 8 bytes are enough to spot abuse patterns
	return hex.EncodeToString(sum[:8])
}
