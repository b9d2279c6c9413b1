package testrunner

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/perfgo/readyrun/classify"
	"github.com/perfgo/readyrun/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	proRunner = `#!/bin/sh
SOAPUI_CLASSPATH="$READYAPI_HOME/bin/ready-api-ui-2.5.0.jar"
java -cp "$SOAPUI_CLASSPATH" com.smartbear.ready.cmd.runner.pro.SoapUIProTestCaseRunner "$@"
`
	oldProRunner = `#!/bin/sh
SOAPUI_CLASSPATH="$READYAPI_HOME/bin/ready-api-ui-1.9.0.jar"
java -cp "$SOAPUI_CLASSPATH" com.smartbear.ready.cmd.runner.pro.SoapUIProTestCaseRunner "$@"
`
	ossRunner = `#!/bin/sh
java -cp soapui.jar com.eviware.soapui.tools.SoapUITestCaseRunner "$@"
`
	proProject = `<?xml version="1.0" encoding="UTF-8"?>
<con:soapui-project updated="2.5.0 2018-09-10" name="Sample" xmlns:con="http://eviware.com/soapui/config"/>`
	ossProject = `<?xml version="1.0" encoding="UTF-8"?>
<con:soapui-project name="Sample" soapui-version="5.4.0" xmlns:con="http://eviware.com/soapui/config"/>`
)

type fixture struct {
	workspace string
	bin       string
	runner    string
	project   string
}

func newFixture(t *testing.T, runner, project string) fixture {
	t.Helper()
	root := t.TempDir()
	f := fixture{
		workspace: filepath.Join(root, "workspace"),
		bin:       filepath.Join(root, "bin"),
		project:   filepath.Join(root, "project.xml"),
	}
	f.runner = filepath.Join(f.bin, "testrunner.sh")
	require.NoError(t, os.MkdirAll(f.workspace, 0755))
	require.NoError(t, os.MkdirAll(f.bin, 0755))
	require.NoError(t, os.WriteFile(f.runner, []byte(runner), 0755))
	require.NoError(t, os.WriteFile(f.project, []byte(project), 0644))
	return f
}

func (f fixture) params() model.Params {
	return model.Params{
		Workspace:  f.workspace,
		TestRunner: f.runner,
		Project:    f.project,
	}
}

func (f fixture) reportDir() string {
	return filepath.Join(f.workspace, ReportDirName)
}

func fixedVersion() string { return "9.9" }

func TestBuild_Scopes(t *testing.T) {
	f := newFixture(t, proRunner, proProject)
	reportDir := f.reportDir()
	common := []string{f.runner, "-f", reportDir, "-r", "-j", "-J", "-F", "PDF"}

	tests := []struct {
		name       string
		params     func(model.Params) model.Params
		wantArgs   []string
		wantScope  model.Scope
		wantPath   string
		wantMarker string
		wantName   string
	}{
		{
			name:       "project",
			params:     func(p model.Params) model.Params { return p },
			wantArgs:   append(append([]string{}, common...), f.project, "-R", "Project Report", "-q", "9.9"),
			wantScope:  model.ScopeProject,
			wantPath:   "/",
			wantMarker: "Created report [Project Report]",
			wantName:   "Project Report.pdf",
		},
		{
			name: "test suite",
			params: func(p model.Params) model.Params {
				p.TestSuite = "My Suite"
				return p
			},
			wantArgs:   append(append([]string{}, common...), "-s", "My Suite", "-R", "TestSuite Report", f.project, "-q", "9.9"),
			wantScope:  model.ScopeTestSuite,
			wantPath:   "/My-Suite/",
			wantMarker: "Created report [TestSuite Report]",
			wantName:   "TestSuite Report.pdf",
		},
		{
			name: "test case",
			params: func(p model.Params) model.Params {
				p.TestSuite = "My Suite"
				p.TestCase = "Test 1"
				return p
			},
			wantArgs:   append(append([]string{}, common...), "-c", "Test 1", "-R", "Test Case Report", "-s", "My Suite", f.project, "-q", "9.9"),
			wantScope:  model.ScopeTestCase,
			wantPath:   "/My-Suite/Test-1/",
			wantMarker: "Created report [Test Case Report]",
			wantName:   "Test Case Report.pdf",
		},
		{
			name: "password and environment",
			params: func(p model.Params) model.Params {
				p.ProjectPassword = "secret"
				p.Environment = "staging"
				return p
			},
			wantArgs:   append(append([]string{}, common...), "-x", "secret", "-E", "staging", f.project, "-R", "Project Report", "-q", "9.9"),
			wantScope:  model.ScopeProject,
			wantPath:   "/",
			wantMarker: "Created report [Project Report]",
			wantName:   "Project Report.pdf",
		},
		{
			name: "blank optional values are ignored",
			params: func(p model.Params) model.Params {
				p.ProjectPassword = "  "
				p.Environment = "\t"
				p.TestSuite = " "
				return p
			},
			wantArgs:   append(append([]string{}, common...), f.project, "-R", "Project Report", "-q", "9.9"),
			wantScope:  model.ScopeProject,
			wantPath:   "/",
			wantMarker: "Created report [Project Report]",
			wantName:   "Project Report.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Build(tt.params(f.params()), WithVersion(fixedVersion))
			require.NoError(t, err)

			if diff := cmp.Diff(tt.wantArgs, plan.Args); diff != "" {
				t.Errorf("Build() args mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.wantScope, plan.Report.Scope)
			assert.Equal(t, filepath.FromSlash(tt.wantPath), plan.Report.Path)
			assert.Equal(t, tt.wantName, plan.Report.Name)
			assert.Equal(t, tt.wantMarker, plan.Report.Marker)
			// The monitor matches against the scope's own marker.
			assert.Equal(t, plan.Report.Scope.Marker(), plan.Report.Marker)
			assert.Equal(t, reportDir, plan.ReportDir)
			assert.True(t, plan.Analytics)
		})
	}

	info, err := os.Stat(reportDir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestBuild_RunnerDirectory(t *testing.T) {
	f := newFixture(t, proRunner, proProject)
	p := f.params()
	p.TestRunner = f.bin

	plan, err := Build(p, WithGOOS("linux"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(f.bin, "testrunner.sh"), plan.RunnerPath)
	require.Equal(t, plan.RunnerPath, plan.Args[0])

	var sink bytes.Buffer
	_, err = Build(p, WithGOOS("windows"), WithSink(&sink))
	require.ErrorIs(t, err, ErrPreflight)
	require.Contains(t, sink.String(), "Failed to load testrunner file ["+f.bin+string(filepath.Separator)+"testrunner.bat]")
}

func TestBuild_NoAnalyticsForOldRunner(t *testing.T) {
	f := newFixture(t, oldProRunner, proProject)

	plan, err := Build(f.params(), WithVersion(fixedVersion))
	require.NoError(t, err)
	require.False(t, plan.Analytics)
	require.NotContains(t, plan.Args, "-q")
	require.Equal(t, "Project Report", plan.Args[len(plan.Args)-1])
}

func TestBuild_CompositeProject(t *testing.T) {
	f := newFixture(t, proRunner, proProject)
	composite := filepath.Join(filepath.Dir(f.project), "composite-project")
	require.NoError(t, os.Mkdir(composite, 0755))
	p := f.params()
	p.Project = composite

	plan, err := Build(p)
	require.NoError(t, err)
	require.Contains(t, plan.Args, composite)
}

func TestBuild_Preflight(t *testing.T) {
	tests := []struct {
		name     string
		runner   string
		project  string
		params   func(f fixture) model.Params
		wantLine string
	}{
		{
			name:    "blank runner",
			runner:  proRunner,
			project: proProject,
			params: func(f fixture) model.Params {
				p := f.params()
				p.TestRunner = " "
				return p
			},
			wantLine: "Failed to load testrunner file []",
		},
		{
			name:    "missing runner",
			runner:  proRunner,
			project: proProject,
			params: func(f fixture) model.Params {
				p := f.params()
				p.TestRunner = filepath.Join(f.bin, "missing.sh")
				return p
			},
			wantLine: "Failed to load testrunner file [",
		},
		{
			name:     "empty runner",
			runner:   "",
			project:  proProject,
			params:   fixture.params,
			wantLine: "Failed to load testrunner file [",
		},
		{
			name:     "open source runner",
			runner:   ossRunner,
			project:  proProject,
			params:   fixture.params,
			wantLine: "The testrunner file is not correct. Please confirm it's the testrunner for SoapUI Pro. Exiting.",
		},
		{
			name:    "case without suite",
			runner:  proRunner,
			project: proProject,
			params: func(f fixture) model.Params {
				p := f.params()
				p.TestCase = "Test 1"
				return p
			},
			wantLine: "Enter a testsuite for the specified testcase. Exiting.",
		},
		{
			name:    "missing project",
			runner:  proRunner,
			project: proProject,
			params: func(f fixture) model.Params {
				p := f.params()
				p.Project = f.project + ".missing"
				return p
			},
			wantLine: "Failed to load the project file [",
		},
		{
			name:     "empty project",
			runner:   proRunner,
			project:  "",
			params:   fixture.params,
			wantLine: "Failed to load the project file [",
		},
		{
			name:     "open source project",
			runner:   proRunner,
			project:  ossProject,
			params:   fixture.params,
			wantLine: "The project is not a SoapUI Pro project! Exiting.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.runner, tt.project)
			var sink bytes.Buffer

			plan, err := Build(tt.params(f), WithSink(&sink))
			require.ErrorIs(t, err, ErrPreflight)
			require.Nil(t, plan)
			require.Contains(t, sink.String(), tt.wantLine)
		})
	}
}

func TestBuild_UnreadableProject(t *testing.T) {
	f := newFixture(t, proRunner, `<con:soapui-project updated=broken`)
	var sink bytes.Buffer

	plan, err := Build(f.params(), WithSink(&sink))
	require.Nil(t, plan)
	require.ErrorIs(t, err, classify.ErrUnreadable)
	require.NotErrorIs(t, err, ErrPreflight)
	require.NotEmpty(t, sink.String())
}

func TestBuild_MalformedProject(t *testing.T) {
	tests := []struct {
		name    string
		project string
	}{
		{name: "mismatched end tag", project: `<a></b><con:soapui-project updated="2.5"/>`},
		{name: "second root", project: `<a/><con:soapui-project updated="2.5"/>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, proRunner, tt.project)
			var sink bytes.Buffer

			plan, err := Build(f.params(), WithSink(&sink))
			require.Nil(t, plan)
			require.ErrorIs(t, err, classify.ErrUnreadable)
			require.NotErrorIs(t, err, ErrPreflight)
		})
	}
}

func TestFolderName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "My Suite", want: "My-Suite"},
		{in: "A/B.C d", want: "ABC-d"},
		{in: `back\slash`, want: "backslash"},
		{in: "two  spaces", want: "two--spaces"},
		{in: "tab\tsep", want: "tab-sep"},
		{in: "v1.2 smoke", want: "v12-smoke"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FolderName(tt.in))
		})
	}
}

func TestRedacted(t *testing.T) {
	args := []string{"testrunner.sh", "-x", "secret", "-E", "prod", "project.xml"}

	got := Redacted(args)
	require.Equal(t, []string{"testrunner.sh", "-x", "****", "-E", "prod", "project.xml"}, got)
	require.Equal(t, "secret", args[2], "input must not be modified")

	require.Equal(t, []string{"a", "-x"}, Redacted([]string{"a", "-x"}))
}

func TestQuote(t *testing.T) {
	got := Quote([]string{"/opt/ReadyAPI/bin/testrunner.sh", "-s", "My Suite", "-x", "pa ss", "project.xml"})
	require.Equal(t, `/opt/ReadyAPI/bin/testrunner.sh -s 'My Suite' -x '****' project.xml`, got)
}
