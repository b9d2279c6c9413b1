package testrunner

// flags.go contains the command line flags selecting a runner invocation.

import (
	"github.com/urfave/cli/v2"
)

// WorkspaceFlag returns the workspace flag.
func WorkspaceFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "workspace",
		Aliases: []string{"w"},
		Usage:   "Workspace root; reports are written to <workspace>/" + ReportDirName + " (default: current directory)",
		EnvVars: []string{"READYRUN_WORKSPACE"},
	}
}

// TestRunnerFlag returns the testrunner flag.
func TestRunnerFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "testrunner",
		Aliases: []string{"t"},
		Usage:   "Path to the ReadyAPI testrunner script or the directory containing it",
		EnvVars: []string{"READYRUN_TESTRUNNER"},
	}
}

// ProjectFlag returns the project flag.
func ProjectFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "project",
		Aliases: []string{"p"},
		Usage:   "Path to the project file or composite project directory",
		EnvVars: []string{"READYRUN_PROJECT"},
	}
}

// ProjectPasswordFlag returns the project password flag.
func ProjectPasswordFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "password",
		Usage:   "Project password",
		EnvVars: []string{"READYRUN_PROJECT_PASSWORD"},
	}
}

// EnvironmentFlag returns the environment flag.
func EnvironmentFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "environment",
		Aliases: []string{"E"},
		Usage:   "Project environment to run against",
		EnvVars: []string{"READYRUN_ENVIRONMENT"},
	}
}

// TestSuiteFlag returns the test suite flag.
func TestSuiteFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "testsuite",
		Aliases: []string{"s"},
		Usage:   "Run only this test suite",
	}
}

// TestCaseFlag returns the test case flag.
func TestCaseFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "testcase",
		Aliases: []string{"c"},
		Usage:   "Run only this test case (requires --testsuite)",
	}
}

// Flags returns all flags selecting a runner invocation.
func Flags() []cli.Flag {
	return []cli.Flag{
		WorkspaceFlag(),
		TestRunnerFlag(),
		ProjectFlag(),
		ProjectPasswordFlag(),
		EnvironmentFlag(),
		TestSuiteFlag(),
		TestCaseFlag(),
	}
}
