package suitekit

import (
	"bytes"
	"testing"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testinfra/suitekit/suite"
)

func renderStats(t *testing.T, stats *suite.Stats) string {
	t.Helper()
	var buf bytes.Buffer
	f := NewConsoleResultFormatter(nil, &buf)
	require.NoError(t, f.FormatStats(stats))
	return stripansi.Strip(buf.String())
}

func TestFormatStatsAllPassing(t *testing.T) {
	out := renderStats(t, &suite.Stats{
		Outcomes: []suite.Outcome{
			{Name: "test_alpha", Ok: true},
			{Name: "test_beta", Ok: true},
		},
		Total:       2,
		Ran:         2,
		SuccessRate: 1,
		Duration:    1500 * time.Millisecond,
	})

	assert.Contains(t, out, "Suite Results (1.5s)")
	assert.Contains(t, out, "test_alpha")
	assert.Contains(t, out, "✓ okay")
	assert.NotContains(t, out, "✗ not okay")
	assert.Contains(t, out, "2/2 ran")
	assert.Contains(t, out, "100% ok")
	assert.Contains(t, out, "Ran 2 of 2 tests.")
}

func TestFormatStatsWithFailures(t *testing.T) {
	out := renderStats(t, &suite.Stats{
		Outcomes: []suite.Outcome{
			{Name: "test_ok", Ok: true},
			{Name: "test_bad", Ok: false},
			{Name: "test_ugly", Ok: false},
		},
		Total:       3,
		Ran:         3,
		Failed:      2,
		SuccessRate: 1.0 / 3.0,
		Duration:    2 * time.Second,
	})

	assert.Contains(t, out, "✗ not okay")
	assert.Contains(t, out, "3/3 ran")
	assert.Contains(t, out, "33% ok")
	assert.Contains(t, out, "Failed 2 of 3 tests.")
}

func TestFormatStatsPartialRun(t *testing.T) {
	out := renderStats(t, &suite.Stats{
		Outcomes: []suite.Outcome{
			{Name: "test_fatal", Ok: false},
		},
		Total:         3,
		Ran:           1,
		Failed:        1,
		FatalFailures: true,
		SuccessRate:   0,
		Duration:      time.Second,
	})

	assert.Contains(t, out, "1/3 ran")
	assert.Contains(t, out, "Fatal failures: true")
}

func TestFormatStatsNil(t *testing.T) {
	f := NewConsoleResultFormatter(nil, &bytes.Buffer{})
	assert.Error(t, f.FormatStats(nil))
}
