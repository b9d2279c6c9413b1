package launcher

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/perfgo/readyrun/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func runMonitor(t *testing.T, output string, marker string) ([]Event, string, int) {
	t.Helper()
	return runMonitorReader(t, strings.NewReader(output), marker)
}

func runMonitorReader(t *testing.T, r io.Reader, marker string) ([]Event, string, int) {
	t.Helper()

	var sink bytes.Buffer
	kills := 0
	m := &monitor{
		logger: zerolog.Nop(),
		sink:   &sink,
		marker: marker,
		kill: func() error {
			kills++
			return nil
		},
	}

	events := make(chan Event, eventKinds)
	m.run(r, events)

	var got []Event
	for ev := range events {
		got = append(got, ev)
	}
	return got, sink.String(), kills
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Kind)
	}
	return out
}

func TestMonitor(t *testing.T) {
	projectMarker := model.ScopeProject.Marker()

	tests := []struct {
		name   string
		output string
		marker string
		want   []EventKind
	}{
		{
			name:   "no events",
			output: "SoapUI Pro 2.5.0 TestCase Runner\nRunning TestCase [Login]\n",
			marker: projectMarker,
			want:   []EventKind{},
		},
		{
			name:   "detailed report only",
			output: "Created report at /ws/ReadyAPI_report/index.html\n",
			marker: projectMarker,
			want:   []EventKind{EventDetailedReportCreated},
		},
		{
			name:   "printable report only",
			output: "12:00:01,000 INFO  Created report [Project Report] /ws/ReadyAPI_report/Project Report.pdf\n",
			marker: projectMarker,
			want:   []EventKind{EventPrintableReportCreated},
		},
		{
			name:   "marker of another scope is ignored",
			output: "Created report [TestSuite Report]\n",
			marker: projectMarker,
			want:   []EventKind{},
		},
		{
			name:   "both reports, repeated lines emit once",
			output: "Created report at a.xml\nCreated report at b.xml\nCreated report [Test Case Report]\nCreated report [Test Case Report]\n",
			marker: model.ScopeTestCase.Marker(),
			want:   []EventKind{EventDetailedReportCreated, EventPrintableReportCreated},
		},
		{
			name:   "last line without newline",
			output: "Created report at a.xml",
			marker: projectMarker,
			want:   []EventKind{EventDetailedReportCreated},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, sink, kills := runMonitor(t, tt.output, tt.marker)
			require.Equal(t, tt.want, kinds(events))
			require.Zero(t, kills)
			require.Equal(t, strings.TrimSuffix(tt.output, "\n")+"\n", sink)
		})
	}
}

func TestMonitor_LicensePrompt(t *testing.T) {
	output := "Created report at early.xml\n" +
		"Please enter absolute path of the license file:\n" +
		"Created report [Project Report]\n" +
		"after the prompt\n"

	events, sink, kills := runMonitor(t, output, model.ScopeProject.Marker())

	require.Equal(t, []EventKind{EventDetailedReportCreated, EventLicenseFailure}, kinds(events))
	require.Equal(t, "Created report at early.xml", events[0].Line)
	require.Equal(t, "Please enter absolute path of the license file:", events[1].Line)
	require.Equal(t, 1, kills)
	require.Contains(t, sink, "No license was found! Exiting.")
	require.NotContains(t, sink, "after the prompt")
	require.NotContains(t, sink, "Created report [Project Report]")
}

func TestMonitor_LongLine(t *testing.T) {
	output := "Created report at a.xml\n" + strings.Repeat("x", maxLineSize+10) + "\ntail\n"

	events, sink, kills := runMonitor(t, output, model.ScopeProject.Marker())

	require.Equal(t, []EventKind{EventDetailedReportCreated}, kinds(events))
	require.Zero(t, kills)
	require.True(t, strings.HasSuffix(sink, "tail\n"), "remaining output is drained to the sink")
}

func TestMonitor_ReadError(t *testing.T) {
	r := io.MultiReader(
		strings.NewReader("Created report at a.xml\n"),
		iotest.ErrReader(errors.New("pipe broken")),
	)

	events, sink, kills := runMonitorReader(t, r, model.ScopeProject.Marker())

	require.Equal(t, []EventKind{EventDetailedReportCreated}, kinds(events))
	require.Zero(t, kills)
	require.Equal(t, "Created report at a.xml\n", sink)
}
