package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/perfgo/readyrun/cli/testrunner"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const AppName = "readyrun"

type App struct {
	logger zerolog.Logger
	// sink receives the runner output and status lines
	sink io.Writer
	cli  *cli.App
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger: logger,
		sink:   os.Stdout,
		cli: &cli.App{
			Name:  AppName,
			Usage: "Run ReadyAPI (SoapUI Pro) functional tests unattended",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "verbose",
					Usage: "Enable verbose (debug) logging",
				},
			},
			Before: func(ctx *cli.Context) error {
				if ctx.Bool("verbose") {
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
				return nil
			},
		},
	}
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "run",
		Usage:     "Validate the testrunner and project, then run the functional test",
		ArgsUsage: " ",
		Action:    app.run,
		Flags: append(testrunner.Flags(),
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML job file providing the flags above; explicit flags take precedence",
			},
		),
		Description: `Runs the ReadyAPI testrunner for a project, a test suite or a test case.

The testrunner and the project must belong to SoapUI Pro. Reports are written to
<workspace>/` + testrunner.ReportDirName + `, the printable PDF report to:
  Project Report.pdf                        (project)
  <suite>/TestSuite Report.pdf              (--testsuite)
  <suite>/<case>/Test Case Report.pdf       (--testsuite and --testcase)

The run fails if the testrunner asks for a license file.`,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "list",
		Usage:  "List previous runs",
		Action: app.list,
		Flags: []cli.Flag{
			testrunner.WorkspaceFlag(),
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Limit number of results (default: 20)",
				Value:   20,
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "view",
		Usage:     "View a previous run",
		ArgsUsage: "[ID|INDEX]",
		Action:    app.view,
		Flags: []cli.Flag{
			testrunner.WorkspaceFlag(),
		},
		Description: `View a previous run.

Arguments:
  0           View last run (default)
  -1          View 2nd last run
  <id>        View run matching the ID prefix`,
	})
	return app
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && len(commit) >= 8 {
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit[:8], date)
	}
}

// workspace returns the absolute workspace from the flag, or the working directory.
func workspace(ctx *cli.Context) (string, error) {
	ws := ctx.String("workspace")
	if ws == "" {
		return os.Getwd()
	}
	return absPath(ws)
}
