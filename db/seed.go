// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed seed.json
var seedJSON []byte

// SeedEvent is the shape of the embedded default event.
type SeedEvent struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Options     []string `json:"options"`
}

// DefaultSeed returns the embedded default event and its line-up.
func DefaultSeed() (SeedEvent, error) {
	var seed SeedEvent
	if err := json.Unmarshal(seedJSON, &seed); err != nil {
		return SeedEvent{}, fmt.Errorf("decode seed: %w", err)
	}
	return seed, nil
}
