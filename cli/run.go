package cli

// This file contains the run command, which validates and launches the
// ReadyAPI testrunner.

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/perfgo/readyrun/cli/testrunner"
	"github.com/perfgo/readyrun/config"
	"github.com/perfgo/readyrun/launcher"
	"github.com/perfgo/readyrun/model"
	"github.com/urfave/cli/v2"
)

func (a *App) run(ctx *cli.Context) error {
	startTime := time.Now()

	params, err := a.params(ctx)
	if err != nil {
		return err
	}

	h := &model.History{
		ID:        uuid.NewString(),
		Timestamp: startTime,
		Workspace: params.Workspace,
		ExitCode:  -1,
		Selection: &model.Selection{
			Project:     params.Project,
			TestSuite:   params.TestSuite,
			TestCase:    params.TestCase,
			Environment: params.Environment,
		},
	}
	defer func() {
		h.Duration = time.Since(startTime)
		// Record the history (non-fatal if it fails)
		if err := a.recordHistory(h); err != nil {
			a.logger.Warn().Err(err).Msg("Failed to record history")
		}
	}()

	plan, err := testrunner.Build(params, testrunner.WithSink(a.sink))
	if err != nil {
		h.Error = err.Error()
		if errors.Is(err, testrunner.ErrPreflight) {
			a.logger.Error().Err(err).Msg("Pre-flight check failed, testrunner not started")
		} else {
			a.logger.Error().Err(err).Msg("Could not classify testrunner or project, testrunner not started")
		}
		return cli.Exit(err.Error(), 1)
	}
	h.Args = testrunner.Redacted(plan.Args)
	h.ReportDir = plan.ReportDir
	h.Report = &plan.Report

	a.logger.Info().
		Str("testrunner", plan.RunnerPath).
		Str("scope", string(plan.Report.Scope)).
		Str("report_dir", plan.ReportDir).
		Bool("analytics", plan.Analytics).
		Msg("Pre-flight checks passed")

	sigCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	proc, err := launcher.Start(sigCtx, plan,
		launcher.WithLogger(a.logger),
		launcher.WithSink(a.sink),
	)
	if err != nil {
		h.Error = err.Error()
		a.logger.Error().Err(err).Msg("Failed to start testrunner")
		return cli.Exit(err.Error(), 1)
	}
	a.logger.Debug().Int("pid", proc.Pid()).Msg("Testrunner started")

	state, waitErr := proc.Wait()
	h.State = state
	h.ExitCode = exitCode(waitErr)
	a.collectArtifacts(h, plan)

	if state.Failed() {
		h.ExitCode = 1
		a.logger.Error().Msg("Testrunner asked for a license file, run marked as failed")
		return cli.Exit(launcher.ErrLicense.Error(), 1)
	}
	if !state.ReportCreated {
		a.logger.Warn().Msg("Testrunner did not report any created report")
	}
	if !state.PrintableReportCreated {
		a.logger.Warn().Str("marker", plan.Report.Marker).Msg("Printable report was not created")
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			a.logger.Info().Int("exit_code", exitErr.ExitCode()).Msg("Tests completed with failures")
			return cli.Exit(fmt.Sprintf("testrunner failed with exit code %d", exitErr.ExitCode()), h.ExitCode)
		}
		return cli.Exit(fmt.Sprintf("failed to wait for testrunner: %v", waitErr), 1)
	}

	a.logger.Info().Msg("Tests completed successfully")
	return nil
}

// params assembles the invocation from the job file and the flags.
func (a *App) params(ctx *cli.Context) (model.Params, error) {
	var p model.Params
	if path := ctx.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return model.Params{}, err
		}
		p = loaded
		a.logger.Debug().Str("config", path).Msg("Loaded job file")
	}

	p = config.Merge(p, model.Params{
		Workspace:       ctx.String("workspace"),
		TestRunner:      ctx.String("testrunner"),
		Project:         ctx.String("project"),
		ProjectPassword: ctx.String("password"),
		Environment:     ctx.String("environment"),
		TestSuite:       ctx.String("testsuite"),
		TestCase:        ctx.String("testcase"),
	})

	if p.Workspace == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return model.Params{}, fmt.Errorf("failed to determine workspace: %w", err)
		}
		p.Workspace = cwd
	}
	ws, err := absPath(p.Workspace)
	if err != nil {
		return model.Params{}, err
	}
	p.Workspace = ws
	return p, nil
}

func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return abs, nil
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return exitErr.ExitCode()
	}
	return 1
}
