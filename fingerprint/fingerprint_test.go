// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package fingerprint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreate_GeneratesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")

	first, err := NewFileStore(path).GetOrCreate()
	require.NoError(t, err)
	_, err = uuid.Parse(first)
	assert.NoError(t, err, "fingerprint should be a uuid")

	// A fresh store over the same file sees the same value
	second, err := NewFileStore(path).GetOrCreate()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetOrCreate_PreservesOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"vote_lang":"en"}`), 0o600))

	fp, err := NewFileStore(path).GetOrCreate()
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"vote_lang": "en"`)
	assert.Contains(t, string(data), fp)
}

func TestGetOrCreate_UsesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"`+Key+`":"kept"}`), 0o600))

	fp, err := NewFileStore(path).GetOrCreate()
	require.NoError(t, err)
	assert.Equal(t, "kept", fp)
}

func TestGetOrCreate_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o600))

	_, err := NewFileStore(path).GetOrCreate()
	assert.Error(t, err)
}
