package cli

// This file contains run recording functionality for saving run metadata
// to the workspace history directory.

import (
	"github.com/perfgo/readyrun/history"
	"github.com/perfgo/readyrun/model"
)

func (a *App) recordHistory(h *model.History) error {
	if h.Workspace == "" {
		return nil
	}
	runDir, err := history.Record(a.logger, history.Root(h.Workspace), h)
	if err != nil {
		return err
	}
	a.logger.Debug().Str("dir", runDir).Msg("Run recorded")
	return nil
}
