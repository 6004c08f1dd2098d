// Package suite implements the test-execution engine: ordered registration
// of test descriptors, sequential fault-isolated execution, per-test result
// records and aggregate statistics.
package suite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/testinfra/suitekit/fault"
	"github.com/testinfra/suitekit/metrics"
	"github.com/testinfra/suitekit/ui"
)

// BenchPrefix marks a test for automatic timing. The check is a literal,
// case-sensitive prefix match on the test name.
const BenchPrefix = "bench_"

// CrashMessage is the synthetic failure message recorded when a test's
// worker raised a memory-access violation.
const CrashMessage = "encountered a memory access violation"

var (
	ErrNilSuite     = errors.New("suite: suite is nil")
	ErrNilTest      = errors.New("suite: test is nil")
	ErrOutOfTests   = errors.New("suite: no tests remaining")
	ErrRunComplete  = errors.New("suite: run complete, reset before running again")
	ErrFatalFailure = errors.New("suite: aborted by fatal failure")
)

// State is the suite's execution phase.
type State int

const (
	StateNotStarted State = iota
	StateRunning
	StateFinished
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not started"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Suite owns an ordered collection of tests and drives their sequential,
// isolated execution. Tests run strictly in registration order, one at a
// time, each on a dedicated worker goroutine that the engine joins before
// moving on. A Suite is not safe for concurrent use by multiple goroutines.
type Suite struct {
	tests   []*Test
	results []*Record

	cursor     int
	state      State
	finished   bool
	crashCount int

	fatalFailures bool
	runID         string
	startedAt     time.Time
	endedAt       time.Time

	detector *fault.Detector
	reporter ui.Reporter
	log      *zap.SugaredLogger
	tracer   trace.Tracer
}

// Config carries the suite's collaborators. Zero values select sane
// defaults: a fresh fault detector, a colorized printer on stdout, and a
// no-op logger.
type Config struct {
	Detector *fault.Detector
	Reporter ui.Reporter
	Log      *zap.SugaredLogger

	// Quiet suppresses per-test output entirely. Ignored when an explicit
	// Reporter is configured.
	Quiet bool
}

// New creates an empty suite.
func New(cfg Config) *Suite {
	if cfg.Detector == nil {
		cfg.Detector = fault.New()
	}
	if cfg.Reporter == nil {
		if cfg.Quiet {
			cfg.Reporter = ui.Discard
		} else {
			cfg.Reporter = ui.NewPrinter(nil)
		}
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop().Sugar()
	}
	return &Suite{
		detector: cfg.Detector,
		reporter: cfg.Reporter,
		log:      cfg.Log,
		tracer:   otel.Tracer("suite runner"),
	}
}

// Add registers tests in order. Registration order is execution order. On
// error nothing is registered and the suite is unchanged.
func (s *Suite) Add(tests []*Test) error {
	if s == nil {
		return ErrNilSuite
	}
	if s.state != StateNotStarted {
		return fmt.Errorf("suite: cannot register tests while %s", s.state)
	}
	for _, t := range tests {
		if t == nil {
			return ErrNilTest
		}
	}
	s.tests = append(s.tests, tests...)
	return nil
}

// AddTest registers a single test.
func (s *Suite) AddTest(t *Test) error {
	if s == nil {
		return ErrNilSuite
	}
	if t == nil {
		return ErrNilTest
	}
	return s.Add([]*Test{t})
}

// Run executes every remaining test in order. With fatalFailures set, the
// first failed test aborts the run and Run returns an error wrapping
// ErrFatalFailure. A finished or aborted suite returns ErrRunComplete until
// Reset. The context is attached to tracing spans; it does not
// cancel an in-flight test body, so a hung test blocks Run indefinitely.
func (s *Suite) Run(ctx context.Context, fatalFailures bool) error {
	if s == nil {
		return ErrNilSuite
	}
	if s.state == StateFinished || s.state == StateAborted {
		return ErrRunComplete
	}
	for s.cursor < len(s.tests) {
		if err := s.RunNext(ctx, fatalFailures); err != nil {
			return err
		}
	}
	// An empty suite finishes without ever entering RunNext.
	if s.state != StateFinished {
		s.done()
	}
	return nil
}

// RunNext executes the single test at the cursor and appends its record.
// A handler-installation failure aborts only this attempt: the cursor does
// not advance and the suite stays in its prior state.
func (s *Suite) RunNext(ctx context.Context, fatalFailures bool) error {
	if s == nil {
		return ErrNilSuite
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if s.state == StateFinished || s.state == StateAborted {
		return ErrRunComplete
	}
	if s.cursor >= len(s.tests) {
		return ErrOutOfTests
	}
	if s.state == StateNotStarted {
		s.state = StateRunning
		s.runID = uuid.New().String()
		s.startedAt = time.Now()
		s.log.Debugw("starting suite run", "run_id", s.runID, "tests", len(s.tests), "fatal_failures", fatalFailures)
	}
	s.fatalFailures = fatalFailures

	test := s.tests[s.cursor]
	rec := NewRecord(test.Name)
	bench := strings.HasPrefix(test.Name, BenchPrefix)

	before := s.detector.Snapshot()
	prepare, err := s.detector.Install()
	if err != nil {
		metrics.RecordError("install_fault_handler")
		s.log.Errorw("cannot install fault handler", "run_id", s.runID, "test", test.Name, "error", err)
		return fmt.Errorf("install fault handler for %q: %w", test.Name, err)
	}

	_, span := s.tracer.Start(ctx, "run test",
		trace.WithAttributes(
			attribute.String("test.name", test.Name),
			attribute.Bool("test.bench", bench),
		))

	s.log.Debugw("running test", "run_id", s.runID, "test", test.Name,
		"index", s.cursor+1, "total", len(s.tests), "bench", bench)

	if bench {
		rec.Begin()
	}
	s.runWorker(test, rec, prepare)
	// Automatic timing never overrides an end the body set itself; a manual
	// Begin inside the body is honored the same way.
	if bench && rec.End.IsZero() {
		rec.Done()
	}
	if after := s.detector.Snapshot(); after != before {
		s.crashCount += int(after - before)
		rec.Fail(CrashMessage)
		s.log.Warnw("test crashed", "run_id", s.runID, "test", test.Name)
	}
	span.SetAttributes(attribute.String("test.status", string(rec.Status())))
	span.End()

	s.results = append(s.results, rec)
	s.cursor++

	aborting := rec.Failed && fatalFailures
	s.reporter.Report(ui.Event{
		Name:          test.Name,
		Description:   test.Description,
		Index:         s.cursor,
		Total:         len(s.tests),
		Failed:        rec.Failed,
		FailMessage:   rec.FailMessage,
		ErrorMessages: rec.ErrorMessages,
		Bench:         bench,
		Elapsed:       rec.Elapsed(),
		Aborted:       aborting,
		Remaining:     len(s.tests) - s.cursor,
	})
	metrics.RecordTest(s.runID, test.Name, string(rec.Status()), rec.Elapsed())
	s.log.Infow("test finished", "run_id", s.runID, "test", test.Name,
		"status", rec.Status(), "errors", rec.ErrorCount())

	if aborting {
		s.state = StateAborted
		s.endedAt = time.Now()
		return fmt.Errorf("%w: %s", ErrFatalFailure, test.Name)
	}
	if s.cursor == len(s.tests) {
		s.done()
	}
	return nil
}

// runWorker executes the test body on its own goroutine and blocks until it
// finishes or unwinds. The worker is the isolation boundary: a memory fault
// inside the body surfaces as a panic there, is counted by the detector, and
// the controller carries on. Any other panic force-fails the record.
func (s *Suite) runWorker(test *Test, rec *Record, prepare func()) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if prepare != nil {
			prepare()
		}
		defer func() {
			if v := recover(); v != nil {
				if s.detector.Observe(v) {
					return
				}
				rec.Fail(fmt.Sprintf("panic: %v", v))
			}
		}()
		test.Run(rec)
	}()
	<-done
}

func (s *Suite) done() {
	s.state = StateFinished
	s.finished = true
	s.endedAt = time.Now()
	s.log.Infow("suite run finished", "run_id", s.runID,
		"ran", s.cursor, "crashes", s.crashCount)
}

// Reset rewinds the suite to its initial state: results are discarded, the
// cursor and crash count return to zero, and the registered tests are kept
// in their original order.
func (s *Suite) Reset() {
	if s == nil {
		return
	}
	s.results = nil
	s.cursor = 0
	s.state = StateNotStarted
	s.finished = false
	s.crashCount = 0
	s.fatalFailures = false
	s.runID = ""
	s.startedAt = time.Time{}
	s.endedAt = time.Time{}
}

// Len returns the number of registered tests.
func (s *Suite) Len() int { return len(s.tests) }

// Cursor returns the index of the next test to run.
func (s *Suite) Cursor() int { return s.cursor }

// State returns the suite's execution phase.
func (s *Suite) State() State { return s.state }

// Finished reports whether every registered test ran without an abort.
func (s *Suite) Finished() bool { return s.finished }

// CrashCount returns the number of memory faults observed this run.
func (s *Suite) CrashCount() int { return s.crashCount }

// RunID returns the identifier of the current or most recent run, empty
// before the first run and after a reset.
func (s *Suite) RunID() string { return s.runID }

// Results returns the records of the tests executed so far, in execution
// order. The returned slice is a copy; the records are shared.
func (s *Suite) Results() []*Record {
	out := make([]*Record, len(s.results))
	copy(out, s.results)
	return out
}
