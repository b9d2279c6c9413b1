package model

import "time"

// History represents a single readyrun invocation.
type History struct {
	// Unique ID for this execution (uuid)
	ID string `json:"id"`
	// Timestamp when the execution started
	Timestamp time.Time `json:"timestamp"`
	// Runner command line, with the project password masked
	Args []string `json:"args"`
	// Workspace the run was started in
	Workspace string `json:"workspace"`
	// Report directory passed to the runner
	ReportDir string `json:"report_dir"`
	// Exit code of the runner (-1 if it never started)
	ExitCode int `json:"exit_code"`
	// Duration of execution
	Duration time.Duration `json:"duration"`
	// Selection the run was started with
	Selection *Selection `json:"selection,omitempty"`
	// Printable report expected from the run
	Report *ReportDescriptor `json:"report,omitempty"`
	// State observed on the runner output
	State RunState `json:"state"`
	// Artifacts found after the run
	Artifacts []Artifact `json:"artifacts,omitempty"`
	// Error message if the run could not be started
	Error string `json:"error,omitempty"`
}

// Selection contains the project, suite and case that were run.
type Selection struct {
	Project     string `json:"project"`
	TestSuite   string `json:"testsuite,omitempty"`
	TestCase    string `json:"testcase,omitempty"`
	Environment string `json:"environment,omitempty"`
}

// ArtifactType identifies the type of artifact
type ArtifactType uint8

const (
	ArtifactTypePrintableReport ArtifactType = iota
	ArtifactTypeReportDirectory
)

// Artifact represents a file generated during execution
type Artifact struct {
	Type ArtifactType `json:"type"`
	Size uint64       `json:"size"`
	File string       `json:"file"` // absolute path
}
