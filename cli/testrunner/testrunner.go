package testrunner

// testrunner.go builds ReadyAPI testrunner command lines and predicts the
// printable report the runner will write.

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/perfgo/readyrun/classify"
	"github.com/perfgo/readyrun/model"
	"github.com/perfgo/readyrun/plugininfo"
)

// ReportDirName is created below the workspace and receives all reports.
const ReportDirName = "ReadyAPI_report"

const scriptName = "testrunner"

// ErrPreflight is returned when the runner, the project or the selection is
// rejected before anything is started.
var ErrPreflight = errors.New("pre-flight check failed")

// Plan is a validated runner invocation.
type Plan struct {
	// Command line; Args[0] is the runner script
	Args []string
	// Resolved runner script
	RunnerPath string
	// Directory the runner writes its reports to
	ReportDir string
	// Printable report expected from this invocation
	Report model.ReportDescriptor
	// Whether the analytics flag was appended
	Analytics bool
}

// Option configures Build.
type Option func(*builder)

// WithSink sets where status lines are written. Defaults to io.Discard.
func WithSink(w io.Writer) Option {
	return func(b *builder) {
		b.sink = w
	}
}

// WithGOOS overrides the operating system used to pick the runner script name.
func WithGOOS(goos string) Option {
	return func(b *builder) {
		b.goos = goos
	}
}

// WithVersion overrides the version reported with the analytics flag.
func WithVersion(version func() string) Option {
	return func(b *builder) {
		b.version = version
	}
}

type builder struct {
	sink    io.Writer
	goos    string
	version func() string
}

// Build validates p and returns the runner invocation. Pre-flight failures
// wrap ErrPreflight; runner or project files that cannot be read wrap
// classify.ErrUnreadable. In both cases the reason has already been written
// to the sink and no plan is returned.
func Build(p model.Params, opts ...Option) (*Plan, error) {
	b := &builder{
		sink:    io.Discard,
		goos:    runtime.GOOS,
		version: plugininfo.Version,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b.build(p)
}

func (b *builder) build(p model.Params) (*Plan, error) {
	runnerPath := b.runnerPath(p.TestRunner)
	if !isNotBlank(runnerPath) || !exists(runnerPath) {
		return nil, b.abort("Failed to load testrunner file [%s]", runnerPath)
	}
	runner, err := os.ReadFile(runnerPath)
	if err != nil {
		return nil, b.unreadable(fmt.Errorf("%w: %w", classify.ErrUnreadable, err))
	}
	if len(runner) == 0 {
		return nil, b.abort("Failed to load testrunner file [%s]", runnerPath)
	}
	if !classify.IsProRunner(runner) {
		return nil, b.abort("The testrunner file is not correct. Please confirm it's the testrunner for SoapUI Pro. Exiting.")
	}
	args := []string{runnerPath}

	reportDir := p.Workspace + string(filepath.Separator) + ReportDirName
	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	args = append(args, "-f", reportDir)
	args = append(args, "-r", "-j", "-J")
	args = append(args, "-F", model.ReportFormat)

	var report *model.ReportDescriptor
	sep := string(filepath.Separator)

	if isNotBlank(p.TestCase) {
		if !isNotBlank(p.TestSuite) {
			return nil, b.abort("Enter a testsuite for the specified testcase. Exiting.")
		}
		args = append(args, "-c", p.TestCase)
		args = append(args, "-R", string(model.ScopeTestCase))
		r := model.NewReportDescriptor(model.ScopeTestCase,
			sep+FolderName(p.TestSuite)+sep+FolderName(p.TestCase)+sep)
		report = &r
	}
	if isNotBlank(p.TestSuite) {
		args = append(args, "-s", p.TestSuite)
		if report == nil {
			args = append(args, "-R", string(model.ScopeTestSuite))
			r := model.NewReportDescriptor(model.ScopeTestSuite, sep+FolderName(p.TestSuite)+sep)
			report = &r
		}
	}
	if isNotBlank(p.ProjectPassword) {
		args = append(args, PasswordFlag, p.ProjectPassword)
	}
	if isNotBlank(p.Environment) {
		args = append(args, "-E", p.Environment)
	}

	if !isNotBlank(p.Project) || !exists(p.Project) {
		return nil, b.abort("Failed to load the project file [%s]", p.Project)
	}
	isPro, err := classify.IsProProject(p.Project)
	if err != nil {
		return nil, b.unreadable(err)
	}
	if !isPro {
		return nil, b.abort("The project is not a SoapUI Pro project! Exiting.")
	}
	args = append(args, p.Project)

	if report == nil {
		args = append(args, "-R", string(model.ScopeProject))
		r := model.NewReportDescriptor(model.ScopeProject, sep)
		report = &r
	}

	analytics := classify.WantsAnalytics(runner)
	if analytics {
		args = append(args, "-q", b.version())
	}

	return &Plan{
		Args:       args,
		RunnerPath: runnerPath,
		ReportDir:  reportDir,
		Report:     *report,
		Analytics:  analytics,
	}, nil
}

// runnerPath resolves a runner directory to the platform's script.
func (b *builder) runnerPath(path string) string {
	if !isNotBlank(path) {
		return ""
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return path
	}
	if b.goos == "windows" {
		return path + string(filepath.Separator) + scriptName + ".bat"
	}
	return path + string(filepath.Separator) + scriptName + ".sh"
}

func (b *builder) abort(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(b.sink, msg)
	return fmt.Errorf("%w: %s", ErrPreflight, msg)
}

func (b *builder) unreadable(err error) error {
	fmt.Fprintln(b.sink, err.Error())
	return err
}

// exists reports whether path exists and is not an empty file. Directories
// (composite projects) count as non-empty.
func exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir() || info.Size() != 0
}

func isNotBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}

// FolderName mirrors how ReadyAPI names report folders after suites and
// cases: backslashes, slashes and dots are dropped and every whitespace
// character becomes a dash.
func FolderName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\\', '/', '.':
			return -1
		case ' ', '\t', '\n', '\v', '\f', '\r':
			return '-'
		}
		return r
	}, name)
}
