package cli

// This file contains the list command for displaying previous runs.

import (
	"errors"
	"fmt"
	"time"

	"github.com/perfgo/readyrun/history"
	"github.com/perfgo/readyrun/model"
	"github.com/urfave/cli/v2"
)

func (a *App) list(ctx *cli.Context) error {
	limit := ctx.Int("limit")

	ws, err := workspace(ctx)
	if err != nil {
		return err
	}

	historyEntries, err := history.LoadEntries(a.logger, history.Root(ws))
	if errors.Is(err, history.ErrNoHistory) {
		fmt.Println("No history entries found")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	// Apply limit
	displayRuns := historyEntries
	if limit > 0 && limit < len(displayRuns) {
		displayRuns = displayRuns[:limit]
	}

	fmt.Printf("\n=== History (%d total) ===\n\n", len(historyEntries))

	for _, entry := range displayRuns {
		h := entry.History
		timestamp := h.Timestamp.Format("2006-01-02 15:04:05")
		duration := h.Duration.Round(time.Millisecond)

		fmt.Printf("%s  %s  [%s]  exit=%d  id=%s\n", status(h), timestamp, duration, h.ExitCode, shortID(h.ID))
		if h.Selection != nil {
			fmt.Printf("   Project: %s\n", h.Selection.Project)
			if h.Selection.TestSuite != "" {
				fmt.Printf("   Suite: %s", h.Selection.TestSuite)
				if h.Selection.TestCase != "" {
					fmt.Printf(" / Case: %s", h.Selection.TestCase)
				}
				fmt.Println()
			}
		}
		if h.State.LicenseFailure {
			fmt.Println("   No license was found")
		}
		if h.Error != "" {
			fmt.Printf("   Error: %s\n", h.Error)
		}
		for _, artifact := range h.Artifacts {
			if artifact.Type == model.ArtifactTypePrintableReport {
				fmt.Printf("   report: %s (%.1f KB)\n", artifact.File, float64(artifact.Size)/1024)
			}
		}
		fmt.Printf("   %s\n", entry.FullPath)
		fmt.Println()
	}

	fmt.Printf("\nView run: %s view <ID>\n", AppName)

	return nil
}

// status returns the indicator shown for a run.
func status(h model.History) string {
	if h.ExitCode != 0 || h.State.Failed() || h.Error != "" {
		return "✗"
	}
	return "✓"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
