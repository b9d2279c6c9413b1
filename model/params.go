package model

import (
	"fmt"
	"strings"
)

// ReportFormat is the printable report format requested from the runner.
const ReportFormat = "PDF"

// Params holds the inputs of a single runner invocation.
type Params struct {
	// Workspace root; the report directory is created below it
	Workspace string `json:"workspace" yaml:"workspace"`
	// Path to the testrunner script, or to the directory containing it
	TestRunner string `json:"testrunner" yaml:"testrunner"`
	// Path to the project file or composite project directory
	Project string `json:"project" yaml:"project"`
	// Project password (optional)
	ProjectPassword string `json:"-" yaml:"password"`
	// Environment name (optional)
	Environment string `json:"environment,omitempty" yaml:"environment"`
	// Test suite name (optional)
	TestSuite string `json:"testsuite,omitempty" yaml:"testsuite"`
	// Test case name (optional, requires TestSuite)
	TestCase string `json:"testcase,omitempty" yaml:"testcase"`
}

// Scope identifies what an invocation runs and which printable report it produces.
type Scope string

const (
	ScopeProject   Scope = "Project Report"
	ScopeTestSuite Scope = "TestSuite Report"
	ScopeTestCase  Scope = "Test Case Report"
)

// Marker returns the runner output line fragment announcing the printable report.
func (s Scope) Marker() string {
	return fmt.Sprintf("Created report [%s]", string(s))
}

// FileName returns the printable report file name.
func (s Scope) FileName() string {
	return string(s) + "." + strings.ToLower(ReportFormat)
}

// ReportDescriptor describes the printable report expected from a run.
type ReportDescriptor struct {
	Scope Scope `json:"scope"`
	// Path relative to the report directory, with leading and trailing separators
	Path string `json:"path"`
	// File name of the report
	Name string `json:"name"`
	// Output fragment announcing that the report was written
	Marker string `json:"marker"`
}

// NewReportDescriptor derives the descriptor for scope located at path.
func NewReportDescriptor(scope Scope, path string) ReportDescriptor {
	return ReportDescriptor{
		Scope:  scope,
		Path:   path,
		Name:   scope.FileName(),
		Marker: scope.Marker(),
	}
}

// RunState is the outcome observed on the runner's output.
type RunState struct {
	ReportCreated          bool `json:"report_created"`
	PrintableReportCreated bool `json:"printable_report_created"`
	LicenseFailure         bool `json:"license_failure"`
}

// Failed reports whether the run must be considered failed regardless of exit code.
func (s RunState) Failed() bool {
	return s.LicenseFailure
}
