package history

// This file contains shared history utilities for recording, loading and
// resolving runner invocations.

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/perfgo/readyrun/model"
	"github.com/rs/zerolog"
)

const fileName = "history.json"

// ErrNoHistory is returned when a workspace has no recorded runs.
var ErrNoHistory = errors.New("no history entries found")

type Entry struct {
	History  model.History
	FullPath string
}

// Root returns the history directory of a workspace.
func Root(workspace string) string {
	return filepath.Join(workspace, ".readyrun", "history")
}

// Record writes h into a new directory below root, named
// <timestamp>-<short id>, and returns that directory.
func Record(logger zerolog.Logger, root string, h *model.History) (string, error) {
	shortID := h.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	runName := fmt.Sprintf("%s-%s", h.Timestamp.Format("20060102-150405"), shortID)
	runDir := filepath.Join(root, runName)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create history directory: %w", err)
	}

	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := os.WriteFile(filepath.Join(runDir, fileName), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write history: %w", err)
	}

	logger.Debug().Str("dir", runDir).Str("id", h.ID).Msg("Recorded run")
	return runDir, nil
}

// LoadEntries loads all history entries below root, newest first.
func LoadEntries(logger zerolog.Logger, root string) ([]Entry, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w in %s", ErrNoHistory, root)
	}

	var entries []Entry

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			historyPath := filepath.Join(path, fileName)
			if _, err := os.Stat(historyPath); err == nil {
				history, err := parseHistoryJSON(historyPath)
				if err != nil {
					logger.Warn().Err(err).Str("path", historyPath).Msg("Failed to parse history.json")
					return nil
				}

				entries = append(entries, Entry{
					History:  history,
					FullPath: path,
				})
			}
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk history directory: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].History.Timestamp.After(entries[j].History.Timestamp)
	})

	return entries, nil
}

// Resolve picks an entry from entries sorted newest first. arg is either an
// index (0 for the last run, -1 for the one before, ...) or an ID prefix.
// Positive numbers are matched as ID prefixes.
func Resolve(entries []Entry, arg string) (*Entry, error) {
	if len(entries) == 0 {
		return nil, ErrNoHistory
	}
	if arg == "" {
		arg = "0"
	}

	// Positive numbers are ID prefixes; IDs may start with digits.
	if parsed, err := strconv.ParseInt(arg, 10, 64); err == nil && parsed <= 0 {
		index := int(-parsed)
		if index >= len(entries) {
			return nil, fmt.Errorf("index %s out of range (only %d history entries)", arg, len(entries))
		}
		return &entries[index], nil
	}

	prefix := strings.ToLower(arg)
	for i := range entries {
		if strings.HasPrefix(strings.ToLower(entries[i].History.ID), prefix) {
			return &entries[i], nil
		}
	}
	return nil, fmt.Errorf("no history entry found matching ID: %s", arg)
}

// parseHistoryJSON parses a history.json file.
func parseHistoryJSON(historyPath string) (model.History, error) {
	data, err := os.ReadFile(historyPath)
	if err != nil {
		return model.History{}, err
	}

	var history model.History
	if err := json.Unmarshal(data, &history); err != nil {
		return model.History{}, err
	}

	return history, nil
}
