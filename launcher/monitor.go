package launcher

// monitor.go contains the output monitor that runs alongside the testrunner.

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

const (
	// licensePrompt is printed when the runner found no license and waits
	// for a path on stdin, which an unattended run never provides.
	licensePrompt = "Please enter absolute path of the license file"

	// reportCreated is printed for each report the runner writes.
	reportCreated = "Created report at"

	maxLineSize = 1024 * 1024
)

// EventKind is a condition detected on the runner output.
type EventKind int

const (
	EventDetailedReportCreated EventKind = iota + 1
	EventPrintableReportCreated
	EventLicenseFailure

	eventKinds = 3
)

func (k EventKind) String() string {
	switch k {
	case EventDetailedReportCreated:
		return "detailed-report-created"
	case EventPrintableReportCreated:
		return "printable-report-created"
	case EventLicenseFailure:
		return "license-failure"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event reports the first line on which a condition was seen.
type Event struct {
	Kind EventKind
	Line string
}

type monitor struct {
	logger zerolog.Logger
	sink   io.Writer
	// marker announcing the printable report
	marker string
	kill   func() error
}

// run forwards every line of r to the sink and emits each condition once.
// It stops at EOF, on a read error, or after killing the runner on the
// license prompt. events is closed on return; it must have room for
// eventKinds events.
func (m *monitor) run(r io.Reader, events chan<- Event) {
	defer close(events)

	seen := make(map[EventKind]bool, eventKinds)
	emit := func(kind EventKind, line string) {
		if seen[kind] {
			return
		}
		seen[kind] = true
		m.logger.Debug().Stringer("event", kind).Str("line", line).Msg("Detected runner event")
		events <- Event{Kind: kind, Line: line}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		fmt.Fprintln(m.sink, line)

		if strings.Contains(line, licensePrompt) {
			fmt.Fprintln(m.sink, "No license was found! Exiting.")
			emit(EventLicenseFailure, line)
			if err := m.kill(); err != nil {
				m.logger.Warn().Err(err).Msg("Failed to kill testrunner")
			}
			return
		}
		if strings.Contains(line, reportCreated) {
			emit(EventDetailedReportCreated, line)
		}
		if m.marker != "" && strings.Contains(line, m.marker) {
			emit(EventPrintableReportCreated, line)
		}
	}

	if err := scanner.Err(); err != nil {
		m.logger.Warn().Err(err).Msg("Stopped monitoring testrunner output")
		// Keep the pipe drained so the runner cannot block on a full buffer.
		if _, err := io.Copy(m.sink, r); err != nil {
			m.logger.Debug().Err(err).Msg("Failed to drain testrunner output")
		}
	}
}
