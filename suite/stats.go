package suite

import (
	"fmt"
	"strings"
	"time"
)

// Outcome is the at-a-glance result of one executed test.
type Outcome struct {
	Name string
	// Ok is true when the test passed cleanly: not failed and no errors.
	Ok bool
}

// Stats summarizes a suite's accumulated results. It reflects exactly the
// prefix of tests that had executed when it was computed.
type Stats struct {
	// Outcomes lists executed tests in execution order.
	Outcomes []Outcome

	Total   int // registered tests
	Ran     int // tests actually executed
	Errored int // tests with at least one error
	Failed  int // tests marked failed
	Crashes int // memory faults observed

	// SuccessRate is clean tests divided by tests ran; zero when nothing ran.
	SuccessRate float64

	// FatalFailures records the mode of the run that produced these stats.
	FatalFailures bool

	RunID    string
	Duration time.Duration
}

// Stats computes a summary of the suite's results so far. It does not
// mutate the suite.
func (s *Suite) Stats() (*Stats, error) {
	if s == nil {
		return nil, ErrNilSuite
	}

	st := &Stats{
		Outcomes:      make([]Outcome, 0, len(s.results)),
		Total:         len(s.tests),
		Ran:           s.cursor,
		Crashes:       s.crashCount,
		FatalFailures: s.fatalFailures,
		RunID:         s.runID,
	}
	clean := 0
	for _, rec := range s.results {
		st.Outcomes = append(st.Outcomes, Outcome{Name: rec.Name, Ok: rec.Passed()})
		if rec.ErrorCount() > 0 {
			st.Errored++
		}
		if rec.Failed {
			st.Failed++
		}
		if rec.Passed() {
			clean++
		}
	}
	if st.Ran > 0 {
		st.SuccessRate = float64(clean) / float64(st.Ran)
	}
	if !s.startedAt.IsZero() {
		end := s.endedAt
		if end.IsZero() {
			end = time.Now()
		}
		st.Duration = end.Sub(s.startedAt)
	}
	return st, nil
}

// String renders the summary block printed after a run.
func (st *Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ran %d of %d tests.\n", st.Ran, st.Total)
	fmt.Fprintf(&b, "Failed %d of %d tests. (Fatal failures: %t)\n", st.Failed, st.Ran, st.FatalFailures)
	fmt.Fprintf(&b, "Errors during testing: %d\n", st.Errored)
	fmt.Fprintf(&b, "Success rate: %0.2f\n", st.SuccessRate)
	return b.String()
}
