// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package fingerprint keeps the device identifier that ballots are keyed by.
// It is generated once and then reused for the lifetime of the store.
package fingerprint

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dncmaduro/vote-mcd/auth"
)

// Key is the fixed entry the fingerprint is stored under.
const Key = "mcd_vote_fp_v1"

// FileStore is a small JSON key/value file, the command line stand-in for
// browser local storage. Other keys in the file are preserved.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by path. The file is created on the
// first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath is the per-user location used by votectl.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "vote-mcd", "storage.json"), nil
}

// GetOrCreate returns the stored fingerprint, generating and persisting one
// if none exists yet.
func (s *FileStore) GetOrCreate() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return "", err
	}
	if fp := entries[Key]; fp != "" {
		return fp, nil
	}

	fp := auth.NewFingerprint()
	entries[Key] = fp
	if err := s.save(entries); err != nil {
		return "", err
	}
	return fp, nil
}

func (s *FileStore) load() (map[string]string, error) {
	entries := make(map[string]string)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return entries, nil
}

// save writes through a temp file so a crash never leaves a torn file.
func (s *FileStore) save(entries map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
