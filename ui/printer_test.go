package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/stretchr/testify/assert"
)

func render(e Event) string {
	var buf bytes.Buffer
	NewPrinter(&buf).Report(e)
	return stripansi.Strip(buf.String())
}

func TestPrinterOkay(t *testing.T) {
	out := render(Event{
		Name:        "ok",
		Description: "does nothing",
		Index:       1,
		Total:       3,
	})
	assert.Equal(t, "okay: test 1/3 (ok): does nothing\n", out)
}

func TestPrinterFail(t *testing.T) {
	out := render(Event{
		Name:        "fails",
		Description: "always broken",
		Index:       2,
		Total:       3,
		Failed:      true,
		FailMessage: "a critical error occurred",
	})
	assert.Contains(t, out, "fail: test 2/3 (fails): always broken\n")
	assert.Contains(t, out, "      a critical error occurred\n")
}

func TestPrinterErrors(t *testing.T) {
	out := render(Event{
		Name:          "errs",
		Index:         1,
		Total:         1,
		ErrorMessages: []string{"first", "second"},
	})
	assert.Contains(t, out, "err:  test 1/1 (errs):")
	assert.Contains(t, out, "encountered 2 errors.")
	assert.Contains(t, out, "1. first\n")
	assert.Contains(t, out, "2. second\n")
}

func TestPrinterBenchTiming(t *testing.T) {
	out := render(Event{
		Name:    "bench_sort",
		Index:   1,
		Total:   1,
		Bench:   true,
		Elapsed: 1500 * time.Microsecond,
	})
	assert.Contains(t, out, "bench: test (bench_sort) took 1.5ms")
}

func TestPrinterAbort(t *testing.T) {
	out := render(Event{
		Name:        "fails",
		Index:       1,
		Total:       4,
		Failed:      true,
		FailMessage: "broken",
		Aborted:     true,
		Remaining:   3,
	})
	assert.Contains(t, out, "aborted with 3 tests remaining.\n")
}

func TestDiscardReporter(t *testing.T) {
	// Must simply not panic.
	Discard.Report(Event{Name: "anything"})
}
