// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"testing"

	"github.com/google/uuid"
)

func TestHashFingerprint(t *testing.T) {
	tests := []struct {
		name        string
		fingerprint string
		salt        string
	}{
		{"standard", "3f0c8a52-5a6e-4d0b-9d0c-7b5c1e0b9e11", "secret-salt"},
		{"empty salt", "device-1", ""},
		{"unicode", "thiết-bị", "muối"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash := HashFingerprint(tt.fingerprint, tt.salt)

			if len(hash) != 64 {
				t.Errorf("HashFingerprint() length = %d, want 64", len(hash))
			}

			// Should be deterministic
			if hash != HashFingerprint(tt.fingerprint, tt.salt) {
				t.Error("HashFingerprint() is not deterministic")
			}

			// Different fingerprint should produce a different hash
			if hash == HashFingerprint(tt.fingerprint+"x", tt.salt) {
				t.Error("HashFingerprint() produced same hash for different fingerprints")
			}

			// Different salt should produce a different hash
			if hash == HashFingerprint(tt.fingerprint, tt.salt+"x") {
				t.Error("HashFingerprint() produced same hash for different salts")
			}

			// Raw fingerprint must not appear in the digest
			if tt.fingerprint != "" && hash == tt.fingerprint {
				t.Error("HashFingerprint() returned the raw fingerprint")
			}
		})
	}
}

func TestValidateAdminSecret(t *testing.T) {
	tests := []struct {
		name     string
		provided string
		expected string
		wantErr  error
	}{
		{"match", "s3cret", "s3cret", nil},
		{"mismatch", "wrong", "s3cret", ErrInvalidAdminSecret},
		{"missing header", "", "s3cret", ErrInvalidAdminSecret},
		{"prefix only", "s3cre", "s3cret", ErrInvalidAdminSecret},
		{"not configured", "anything", "", ErrAdminNotConfigured},
		{"both empty", "", "", ErrAdminNotConfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAdminSecret(tt.provided, tt.expected)
			if err != tt.wantErr {
				t.Errorf("ValidateAdminSecret() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewFingerprint(t *testing.T) {
	fp1 := NewFingerprint()
	fp2 := NewFingerprint()

	if _, err := uuid.Parse(fp1); err != nil {
		t.Errorf("NewFingerprint() is not a UUID: %v", err)
	}
	if fp1 == fp2 {
		t.Error("NewFingerprint() produced duplicate values (extremely unlikely)")
	}
}

func TestNewID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if id == "" {
			t.Fatal("NewID() returned empty string")
		}
		if seen[id] {
			t.Fatalf("NewID() returned duplicate %s", id)
		}
		seen[id] = true
	}
}

func TestHashIP(t *testing.T) {
	hash := HashIP("192.168.1.1", "salt")

	if len(hash) != 16 {
		t.Errorf("HashIP() length = %d, want 16", len(hash))
	}
	if hash != HashIP("192.168.1.1", "salt") {
		t.Error("HashIP() is not deterministic")
	}
	if hash == HashIP("192.168.1.2", "salt") {
		t.Error("HashIP() produced same hash for different IPs")
	}
	if hash == HashIP("192.168.1.1", "other") {
		t.Error("HashIP() produced same hash for different salts")
	}
}
