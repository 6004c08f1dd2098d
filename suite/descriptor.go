package suite

import "errors"

var (
	// ErrNoName is returned when a test is constructed without a name.
	ErrNoName = errors.New("suite: test name is required")
	// ErrNoFunc is returned when a test is constructed without a body.
	ErrNoFunc = errors.New("suite: test function is required")
)

// Runnable is the capability the engine needs from a test body.
type Runnable interface {
	Run(*Record)
}

// TestFunc adapts a plain function to the Runnable interface.
type TestFunc func(*Record)

// Run implements Runnable.
func (f TestFunc) Run(r *Record) { f(r) }

// Test describes one runnable test: a name, an optional human-readable
// description, and the body to execute. Tests are immutable after
// construction and are owned by the suite they are registered with.
type Test struct {
	Name        string
	Description string

	fn Runnable
}

// NewTest constructs a test descriptor. The name and function are required;
// the description may be empty.
func NewTest(name, description string, fn TestFunc) (*Test, error) {
	if fn == nil {
		return nil, ErrNoFunc
	}
	return NewRunnable(name, description, fn)
}

// NewRunnable constructs a test descriptor from any Runnable.
func NewRunnable(name, description string, fn Runnable) (*Test, error) {
	if name == "" {
		return nil, ErrNoName
	}
	if fn == nil {
		return nil, ErrNoFunc
	}
	return &Test{Name: name, Description: description, fn: fn}, nil
}

// Run executes the test body against the given record.
func (t *Test) Run(r *Record) {
	t.fn.Run(r)
}
