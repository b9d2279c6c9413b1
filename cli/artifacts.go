package cli

// This file contains artifact discovery for the reports written by the
// testrunner.

import (
	"os"
	"path/filepath"

	"github.com/perfgo/readyrun/cli/testrunner"
	"github.com/perfgo/readyrun/model"
)

// printableReportPath returns where the printable report of plan is written.
func printableReportPath(plan *testrunner.Plan) string {
	return filepath.Join(plan.ReportDir, plan.Report.Path, plan.Report.Name)
}

func (a *App) collectArtifacts(h *model.History, plan *testrunner.Plan) {
	if info, err := os.Stat(plan.ReportDir); err == nil && info.IsDir() {
		h.Artifacts = append(h.Artifacts, model.Artifact{
			Type: model.ArtifactTypeReportDirectory,
			File: plan.ReportDir,
		})
	}

	reportPath := printableReportPath(plan)
	info, err := os.Stat(reportPath)
	if err != nil {
		a.logger.Debug().Err(err).Str("file", reportPath).Msg("Printable report not found")
		return
	}
	h.Artifacts = append(h.Artifacts, model.Artifact{
		Type: model.ArtifactTypePrintableReport,
		Size: uint64(info.Size()),
		File: reportPath,
	})
	a.logger.Info().Str("file", reportPath).Msg("Printable report available")
}
