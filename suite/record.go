package suite

import (
	"runtime"
	"time"
)

// Status categorizes the outcome of a single test execution.
type Status string

const (
	StatusOkay Status = "okay"
	StatusErr  Status = "err"
	StatusFail Status = "fail"
)

// Record captures the outcome of one test execution. A fresh Record is
// created by the engine immediately before a test runs and is handed to the
// test body, which reports failures and errors through it. While the test is
// in flight the Record belongs exclusively to the worker goroutine; once the
// engine has joined the worker the Record is read-only.
type Record struct {
	Name string

	// Failed is set by Fail and is never cleared.
	Failed      bool
	FailMessage string

	// ErrorMessages accumulates one entry per Error call, in call order.
	ErrorMessages []string

	// Timestamps are zero until explicitly marked.
	Start    time.Time
	End      time.Time
	FailedAt time.Time
	ErrorAt  time.Time
}

// NewRecord returns an empty record for the named test.
func NewRecord(name string) *Record {
	return &Record{Name: name}
}

// Begin marks the start of the measured window. The engine calls this
// automatically for benchmark tests before the body runs; a body may call it
// again to exclude its own setup from the measurement.
func (r *Record) Begin() {
	r.Start = time.Now()
}

// Done marks the end of the measured window. Safe to call more than once;
// the last call wins.
func (r *Record) Done() {
	r.End = time.Now()
}

// Fail marks the test as failed. Failures are fatal to the test: by
// convention the body should return immediately after calling Fail (use
// Fatal to enforce this). Calling Fail again overwrites the message but a
// failed record never becomes un-failed.
func (r *Record) Fail(msg string) {
	r.Failed = true
	r.FailMessage = msg
	r.FailedAt = time.Now()
}

// Fatal marks the test as failed and stops the test body by exiting its
// goroutine, running any deferred calls on the way out.
func (r *Record) Fatal(msg string) {
	r.Fail(msg)
	runtime.Goexit()
}

// Error records a non-fatal error. The body is expected to continue running
// after calling Error.
func (r *Record) Error(msg string) {
	r.ErrorMessages = append(r.ErrorMessages, msg)
	r.ErrorAt = time.Now()
}

// ErrorCount returns the number of errors recorded so far.
func (r *Record) ErrorCount() int {
	return len(r.ErrorMessages)
}

// Passed reports whether the test finished cleanly: not failed and without
// any recorded errors.
func (r *Record) Passed() bool {
	return !r.Failed && len(r.ErrorMessages) == 0
}

// Status reports the record's category. Failure takes precedence over
// errors.
func (r *Record) Status() Status {
	switch {
	case r.Failed:
		return StatusFail
	case len(r.ErrorMessages) > 0:
		return StatusErr
	default:
		return StatusOkay
	}
}

// Elapsed returns the measured window, or zero if either endpoint is unset.
func (r *Record) Elapsed() time.Duration {
	if r.Start.IsZero() || r.End.IsZero() {
		return 0
	}
	return r.End.Sub(r.Start)
}
