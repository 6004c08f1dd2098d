package suitekit

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"go.uber.org/zap"

	"github.com/testinfra/suitekit/suite"
)

// ResultFormatter is responsible for formatting and displaying suite stats.
type ResultFormatter interface {
	FormatStats(stats *suite.Stats) error
}

// ConsoleResultFormatter renders the results table and summary block.
type ConsoleResultFormatter struct {
	log *zap.SugaredLogger
	out io.Writer
}

// NewConsoleResultFormatter creates a formatter writing to out, defaulting
// to stdout.
func NewConsoleResultFormatter(log *zap.SugaredLogger, out io.Writer) *ConsoleResultFormatter {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleResultFormatter{log: log, out: out}
}

// FormatStats formats and displays the suite statistics.
func (f *ConsoleResultFormatter) FormatStats(stats *suite.Stats) error {
	if stats == nil {
		return fmt.Errorf("stats are required")
	}
	f.log.Debugw("printing results", "run_id", stats.RunID, "ran", stats.Ran)

	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetTitle(fmt.Sprintf("Suite Results (%.1fs)", stats.Duration.Seconds()))

	t.AppendHeader(table.Row{"#", "Test", "Result"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "#", Align: text.AlignRight},
		{Name: "Test", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
	})

	for i, outcome := range stats.Outcomes {
		t.AppendRow(table.Row{i + 1, outcome.Name, resultString(outcome.Ok)})
	}

	switch {
	case stats.Failed > 0:
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	case stats.Errored > 0:
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	default:
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		fmt.Sprintf("%d/%d ran", stats.Ran, stats.Total),
		fmt.Sprintf("%.0f%% ok", stats.SuccessRate*100),
	})

	t.Render()

	fmt.Fprint(f.out, stats.String())
	return nil
}

func resultString(ok bool) string {
	if ok {
		return "✓ okay"
	}
	return "✗ not okay"
}
