package difftest

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/geohack-port/diff-harness/framework"

	"github.com/fatih/color"
)

var consoleMismatchColor = color.New(color.FgRed)               //nolint:gochecknoglobals
var consoleFetchFailedColor = color.New(color.FgYellow)         //nolint:gochecknoglobals
var consoleSkippedColor = color.New(color.Faint, color.FgBlue)  //nolint:gochecknoglobals
var consoleDebugOutputColor = color.New(color.Faint)            //nolint:gochecknoglobals
var allCasesMatchedColor = color.New(color.FgGreen)             //nolint:gochecknoglobals

// Reporter receives status information about each case as the run progresses.
type Reporter interface {
	CaseStarted(path string)
	CaseFinished(verdict Verdict, debugOutput framework.CapturedOutput)
	CaseSkipped(path string, reason string)
	EndLog(results Results) error
}

type nullReporter struct{}

func (n nullReporter) CaseStarted(string)                               {}
func (n nullReporter) CaseFinished(Verdict, framework.CapturedOutput)   {}
func (n nullReporter) CaseSkipped(string, string)                       {}
func (n nullReporter) EndLog(Results) error                             { return nil }

// NullReporter returns a Reporter that discards everything.
func NullReporter() Reporter { return nullReporter{} }

// ConsoleReporter writes the run transcript. It is the single reporting
// implementation for both output styles: with Verbose off, a match is one
// "OK" line and full detail appears only for failures; with Verbose on, byte
// counts are printed for every case.
type ConsoleReporter struct {
	// Output is where the transcript goes; os.Stdout if nil.
	Output io.Writer

	Verbose bool

	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c ConsoleReporter) out() io.Writer {
	if c.Output == nil {
		return os.Stdout
	}
	return c.Output
}

func (c ConsoleReporter) CaseStarted(path string) {}

func (c ConsoleReporter) CaseFinished(v Verdict, debugOutput framework.CapturedOutput) {
	w := c.out()
	switch v.Status {
	case StatusMatch:
		fmt.Fprintf(w, "OK %s\n", v.Path)
		if c.Verbose {
			c.printByteCounts(w, v)
		}
	case StatusMismatch:
		fmt.Fprintln(w)
		_, _ = consoleMismatchColor.Fprintf(w, "MISMATCH %s\n", v.Path)
		c.printByteCounts(w, v)
		for _, line := range strings.Split(strings.TrimRight(v.Comparison.Diff, "\n"), "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
		fmt.Fprintln(w)
	case StatusFetchFailed:
		fmt.Fprintln(w)
		_, _ = consoleFetchFailedColor.Fprintf(w, "FETCH FAILED %s\n", v.Path)
		_, _ = consoleFetchFailedColor.Fprintf(w, "  %s\n", v.Err)
		fmt.Fprintln(w)
	}
	failed := !v.OK()
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		_, _ = consoleDebugOutputColor.Fprintln(w, debugOutput.ToString("    DEBUG "))
	}
}

func (c ConsoleReporter) printByteCounts(w io.Writer, v Verdict) {
	fmt.Fprintf(w, "  reference %d bytes, candidate %d bytes\n",
		v.Comparison.ReferenceBytes, v.Comparison.CandidateBytes)
}

func (c ConsoleReporter) CaseSkipped(path string, reason string) {
	w := c.out()
	if reason == "" {
		_, _ = consoleSkippedColor.Fprintf(w, "SKIPPED %s\n", path)
	} else {
		_, _ = consoleSkippedColor.Fprintf(w, "SKIPPED %s (%s)\n", path, reason)
	}
}

func (c ConsoleReporter) EndLog(results Results) error {
	w := c.out()
	fmt.Fprintln(w)
	if results.OK() {
		_, _ = allCasesMatchedColor.Fprintf(w, "All %d cases matched\n", len(results.Cases))
		return nil
	}
	_, _ = consoleMismatchColor.Fprintf(w, "FAILED CASES (%d of %d):\n",
		len(results.Failures), len(results.Cases))
	for _, v := range results.Failures {
		_, _ = consoleMismatchColor.Fprintf(w, "  * %s (%s)\n", v.Path, v.Status)
	}
	return nil
}

// MultiReporter broadcasts to any number of reporters, e.g. console plus JUnit.
type MultiReporter struct {
	Reporters []Reporter
}

func (m *MultiReporter) CaseStarted(path string) {
	for _, r := range m.Reporters {
		r.CaseStarted(path)
	}
}

func (m *MultiReporter) CaseFinished(v Verdict, debugOutput framework.CapturedOutput) {
	for _, r := range m.Reporters {
		r.CaseFinished(v, debugOutput)
	}
}

func (m *MultiReporter) CaseSkipped(path string, reason string) {
	for _, r := range m.Reporters {
		r.CaseSkipped(path, reason)
	}
}

func (m *MultiReporter) EndLog(results Results) error {
	var firstErr error
	for _, r := range m.Reporters {
		if err := r.EndLog(results); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
