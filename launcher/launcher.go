package launcher

// Package launcher starts the ReadyAPI testrunner for a validated plan and
// monitors its output until the process exits.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/perfgo/readyrun/cli/testrunner"
	"github.com/perfgo/readyrun/model"
	"github.com/rs/zerolog"
)

// ErrLicense is reported for runs killed because no license was found.
var ErrLicense = errors.New("no license was found")

// Option configures Start.
type Option func(*options)

type options struct {
	logger zerolog.Logger
	sink   io.Writer
	stderr io.Writer
	env    []string
	dir    string
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSink sets where runner output and status lines are written.
func WithSink(w io.Writer) Option {
	return func(o *options) {
		o.sink = w
	}
}

// WithStderr sets where the runner's standard error goes. Defaults to os.Stderr.
func WithStderr(w io.Writer) Option {
	return func(o *options) {
		o.stderr = w
	}
}

// WithEnv sets the runner environment. Without it the current environment is inherited.
func WithEnv(env []string) Option {
	return func(o *options) {
		o.env = env
	}
}

// WithDir sets the runner working directory.
func WithDir(dir string) Option {
	return func(o *options) {
		o.dir = dir
	}
}

// Process is a running testrunner.
type Process struct {
	logger zerolog.Logger
	cmd    *exec.Cmd
	report model.ReportDescriptor
	events <-chan Event
}

// Start launches the runner described by plan and starts monitoring its
// output. Cancelling ctx kills the runner's process group; there is no
// timeout otherwise.
func Start(ctx context.Context, plan *testrunner.Plan, opts ...Option) (*Process, error) {
	if plan == nil || len(plan.Args) == 0 {
		return nil, errors.New("no testrunner command to start")
	}

	o := options{
		logger: zerolog.Nop(),
		sink:   os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(&o)
	}

	cmd := exec.CommandContext(ctx, plan.Args[0], plan.Args[1:]...)
	cmd.Env = o.env
	cmd.Dir = o.dir
	cmd.Stderr = o.stderr
	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		return killProcessGroup(cmd)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	o.logger.Debug().
		Str("command", testrunner.Quote(plan.Args)).
		Str("marker", plan.Report.Marker).
		Msg("Starting testrunner")
	fmt.Fprintln(o.sink, "Starting SoapUI Pro functional test.")

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start testrunner: %w", err)
	}

	events := make(chan Event, eventKinds)
	m := &monitor{
		logger: o.logger,
		sink:   o.sink,
		marker: plan.Report.Marker,
		kill: func() error {
			return killProcessGroup(cmd)
		},
	}
	go m.run(stdout, events)

	return &Process{
		logger: o.logger,
		cmd:    cmd,
		report: plan.Report,
		events: events,
	}, nil
}

// Pid returns the runner's process id.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Report returns the printable report the runner is expected to write.
func (p *Process) Report() model.ReportDescriptor {
	return p.report
}

// Kill kills the runner and its process group.
func (p *Process) Kill() error {
	return killProcessGroup(p.cmd)
}

// Wait waits for monitoring to finish and the runner to exit, and returns
// what was observed on its output. The error is the runner's exit error, if
// any; a run can fail with a nil error (see model.RunState.Failed).
func (p *Process) Wait() (model.RunState, error) {
	var state model.RunState
	// events is closed once the monitor is done with stdout.
	for ev := range p.events {
		p.logger.Debug().Stringer("event", ev.Kind).Str("line", ev.Line).Msg("Runner event")
		switch ev.Kind {
		case EventDetailedReportCreated:
			state.ReportCreated = true
		case EventPrintableReportCreated:
			state.PrintableReportCreated = true
		case EventLicenseFailure:
			state.LicenseFailure = true
		}
	}

	err := p.cmd.Wait()

	logEvent := p.logger.Debug().
		Bool("report_created", state.ReportCreated).
		Bool("printable_report_created", state.PrintableReportCreated).
		Bool("license_failure", state.LicenseFailure)
	if p.cmd.ProcessState != nil {
		logEvent.Int("exit_code", p.cmd.ProcessState.ExitCode())
	}
	logEvent.Msg("Testrunner finished")

	return state, err
}
