// Package ui renders per-test status lines. The engine only knows the narrow
// Reporter interface; everything about color and layout lives here.
package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
)

const indent = "      "

// Event describes the outcome of one test for reporting: exactly one Event
// is emitted per executed test.
type Event struct {
	Name        string
	Description string
	Index       int // 1-based position in the run
	Total       int // total registered tests

	Failed        bool
	FailMessage   string
	ErrorMessages []string

	Bench   bool
	Elapsed time.Duration

	// Aborted is set when a fatal failure stops the run after this test.
	Aborted   bool
	Remaining int
}

// Reporter consumes one Event per executed test.
type Reporter interface {
	Report(Event)
}

// Discard is a Reporter that drops every event, for quiet runs.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Report(Event) {}

// Printer writes categorized, colorized status lines to a sink.
type Printer struct {
	out io.Writer
}

// NewPrinter returns a Printer writing to out, defaulting to stdout.
func NewPrinter(out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{out: out}
}

// Report implements Reporter. Failures are red, non-fatal errors yellow,
// clean tests green; benchmark timings are appended on their own line.
func (p *Printer) Report(e Event) {
	head := fmt.Sprintf("test %d/%d (%s):", e.Index, e.Total, e.Name)
	switch {
	case e.Failed:
		fmt.Fprintf(p.out, "%s %s\n", text.FgRed.Sprintf("fail: %s", head), e.Description)
		fmt.Fprintf(p.out, "%s%s\n", indent, e.FailMessage)
	case len(e.ErrorMessages) > 0:
		fmt.Fprintf(p.out, "%s %s\n", text.FgYellow.Sprintf("err:  %s", head), e.Description)
		fmt.Fprintf(p.out, "%s%s\n", indent, text.FgYellow.Sprintf("encountered %d errors.", len(e.ErrorMessages)))
		for i, msg := range e.ErrorMessages {
			fmt.Fprintf(p.out, "%s%d. %s\n", indent, i+1, msg)
		}
	default:
		fmt.Fprintf(p.out, "%s %s\n", text.FgGreen.Sprintf("okay: %s", head), e.Description)
	}

	if e.Bench {
		fmt.Fprintf(p.out, "%sbench: test (%s) took %s\n", indent, e.Name, text.FgCyan.Sprint(e.Elapsed))
	}

	if e.Aborted {
		fmt.Fprintf(p.out, "aborted with %d tests remaining.\n", e.Remaining)
	}
}
