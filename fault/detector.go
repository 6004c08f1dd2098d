// Package fault converts memory-access violations raised inside a test
// worker into observable, countable events instead of letting one faulting
// test take down the whole run.
package fault

import (
	"errors"
	"runtime"
	"runtime/debug"
	"strings"
	"sync/atomic"
)

// ErrNilDetector is returned by Install when the detector is absent.
var ErrNilDetector = errors.New("fault: detector is nil")

// Detector owns the crash counter. The engine snapshots the counter before a
// test starts and compares it after the worker has been joined; the counter
// itself is only ever incremented by Observe, from the worker's recovery
// path. That ordering (install happens-before the worker starts, the read
// happens-after the join) is what makes the counter safe without a lock; the
// atomic is there for the snapshot reads.
type Detector struct {
	crashes atomic.Uint64
}

// New returns a detector with a zeroed counter.
func New() *Detector {
	return &Detector{}
}

// Install arms the detector for a single test attempt. It must be called
// immediately before the test's worker starts; the returned prepare function
// must run on the worker goroutine before the test body, because
// debug.SetPanicOnFault is per-goroutine. With the fault turned into a
// panic, the worker's deferred recovery can route it to Observe.
func (d *Detector) Install() (prepare func(), err error) {
	if d == nil {
		return nil, ErrNilDetector
	}
	return func() {
		debug.SetPanicOnFault(true)
	}, nil
}

// Snapshot returns the current crash count.
func (d *Detector) Snapshot() uint64 {
	if d == nil {
		return 0
	}
	return d.crashes.Load()
}

// Observe classifies a value recovered from a test worker. Memory-access
// violations increment the crash counter and report true; any other panic
// value is left for the caller to handle and reports false.
func (d *Detector) Observe(recovered any) bool {
	if d == nil || !IsMemoryFault(recovered) {
		return false
	}
	d.crashes.Add(1)
	return true
}

// IsMemoryFault reports whether a recovered panic value describes a
// memory-access violation. The runtime surfaces these as runtime.Errors:
// nil-pointer dereferences, and hardware faults promoted to panics by
// debug.SetPanicOnFault.
func IsMemoryFault(recovered any) bool {
	re, ok := recovered.(runtime.Error)
	if !ok {
		return false
	}
	msg := re.Error()
	return strings.Contains(msg, "invalid memory address") ||
		strings.Contains(msg, "nil pointer dereference") ||
		strings.Contains(msg, "unexpected fault address") ||
		strings.Contains(msg, "segmentation violation")
}
