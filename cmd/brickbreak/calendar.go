package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dacebt/gh-brickbreak/internal/config"
	"github.com/dacebt/gh-brickbreak/internal/contrib"
	"github.com/dacebt/gh-brickbreak/internal/storage"
)

// calendarTTL is how long a database-cached calendar stays fresh.
const calendarTTL = 24 * time.Hour

// openStore opens the runs database, returning nil when it is
// unavailable so commands can continue without persistence.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		return nil
	}
	return store
}

// resolveCalendar loads the contribution calendar for a user: from a raw
// JSON file when one is given, from the database cache when fresh, and
// from the GitHub API otherwise. Fresh fetches are written back to the
// cache when a store is available.
func resolveCalendar(cfg config.Config, store *storage.Store, username, rawInput, token string, refresh bool) (*contrib.Calendar, error) {
	if rawInput != "" {
		return contrib.LoadFile(rawInput)
	}

	// Try the database cache first
	if store != nil && !refresh {
		entry, err := store.LoadCalendar(username)
		if err == nil && entry != nil && time.Since(entry.FetchedAt) < calendarTTL {
			var cal contrib.Calendar
			if jsonErr := json.Unmarshal(entry.Payload, &cal); jsonErr == nil {
				return &cal, nil
			}
		}
	}

	// Fetch from the GitHub API
	client, err := contrib.NewClient(cfg.GitHub, token)
	if err != nil {
		return nil, err
	}
	cal, err := client.FetchCalendar(context.Background(), username)
	if err != nil {
		return nil, err
	}

	// Cache the fresh calendar; failures only cost the next fetch
	if store != nil {
		if payload, jsonErr := json.Marshal(cal); jsonErr == nil {
			if saveErr := store.SaveCalendar(username, payload); saveErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not cache calendar: %v\n", saveErr)
			}
		}
	}

	return cal, nil
}
