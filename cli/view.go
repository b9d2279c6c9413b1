package cli

// This file contains the view command for displaying a previous run.

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/perfgo/readyrun/history"
	"github.com/urfave/cli/v2"
)

// parseViewArgs returns the ID or index selecting the run; it defaults to
// the latest run.
func parseViewArgs(in []string) string {
	if len(in) == 0 {
		return "0"
	}
	if in[0] == "--" {
		if len(in) > 1 {
			return in[1]
		}
		return "0"
	}
	return in[0]
}

func (a *App) view(ctx *cli.Context) error {
	arg := parseViewArgs(ctx.Args().Slice())

	ws, err := workspace(ctx)
	if err != nil {
		return err
	}

	historyEntries, err := history.LoadEntries(a.logger, history.Root(ws))
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	entry, err := history.Resolve(historyEntries, arg)
	if err != nil {
		return err
	}

	return a.displayHistoryEntry(entry)
}

func (a *App) displayHistoryEntry(entry *history.Entry) error {
	h := entry.History

	fmt.Printf("=== Run: %s %s ===\n", shortID(h.ID), status(h))
	fmt.Printf("Time: %s\n", h.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Printf("Duration: %s\n", h.Duration)
	fmt.Printf("Exit Code: %d\n", h.ExitCode)
	if h.Report != nil {
		fmt.Printf("Printable Report: %s (created: %t)\n", filepath.Join(h.ReportDir, h.Report.Path, h.Report.Name), h.State.PrintableReportCreated)
	}
	fmt.Printf("History directory: %s\n", entry.FullPath)
	fmt.Println()

	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
