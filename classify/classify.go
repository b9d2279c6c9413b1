// Package classify decides whether a testrunner script and a project belong
// to the SoapUI Pro (ReadyAPI) edition.
package classify

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/perfgo/readyrun/xmlsniff"
)

const (
	// proRunnerClass is referenced by the ReadyAPI testrunner script only.
	proRunnerClass = "com.smartbear.ready.cmd.runner.pro.SoapUIProTestCaseRunner"

	// versionMarker precedes the runner version on the script classpath,
	// e.g. ready-api-ui-2.5.0.jar.
	versionMarker = "ready-api-ui-"

	analyticsMinMajor = 2
	analyticsMinMinor = 4

	projectElement   = "con:soapui-project"
	projectAttribute = "updated"
)

// ErrUnreadable is returned when an artifact could not be inspected at all.
var ErrUnreadable = errors.New("artifact could not be classified")

// IsProRunner reports whether content is a SoapUI Pro testrunner script.
func IsProRunner(content []byte) bool {
	return bytes.Contains(content, []byte(proRunnerClass))
}

// WantsAnalytics reports whether the runner is recent enough to accept the
// analytics flag. It is a best-effort sniff of the version embedded after
// "ready-api-ui-" and assumes a single digit major and minor separated by
// one character (2.5). The minor version is only checked when the major
// passes, so 3.0 does not qualify. Anything that is not a digit where one is
// expected yields false.
func WantsAnalytics(content []byte) bool {
	idx := bytes.Index(content, []byte(versionMarker))
	if idx < 0 {
		return false
	}
	start := idx + len(versionMarker)

	major, ok := digitAt(content, start)
	if !ok || major < analyticsMinMajor {
		return false
	}
	minor, ok := digitAt(content, start+2)
	if !ok || minor < analyticsMinMinor {
		return false
	}
	return true
}

func digitAt(content []byte, i int) (int, bool) {
	if i >= len(content) {
		return 0, false
	}
	c := content[i]
	if c < '0' || c > '9' {
		return 0, false
	}
	return int(c - '0'), true
}

// IsProProject reports whether the project at path is a SoapUI Pro project.
// Composite projects (directories) always are. A project file is when its
// root element carries a non-empty "updated" attribute.
//
// A false result with a nil error means the project was inspected and is not
// a Pro project; any error wraps ErrUnreadable.
func IsProProject(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	if info.IsDir() {
		return true, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	defer f.Close()

	res, err := xmlsniff.Sniff(f, projectElement, projectAttribute)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrUnreadable, path, err)
	}
	return res.HasValue(), nil
}
