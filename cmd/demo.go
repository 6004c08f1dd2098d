package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/testinfra/suitekit/registry"
	"github.com/testinfra/suitekit/suite"
)

// registerDemoTests fills the registry with a small catalog exercising every
// outcome the harness can report. Without a plan file the harness runs all
// of them in this order.
func registerDemoTests(reg *registry.Registry) error {
	demos := []struct {
		name string
		fn   suite.TestFunc
	}{
		{"test_timer", timedTest},
		{"bench_sort", benchSort},
		{"test_errors", errorTest},
		{"test_fails", failTest},
		{"test_crashes", crashTest},
	}
	for _, d := range demos {
		if err := reg.Register(d.name, d.fn); err != nil {
			return fmt.Errorf("register demo test %q: %w", d.name, err)
		}
	}
	return nil
}

// timedTest measures only its own inner region, excluding setup.
func timedTest(r *suite.Record) {
	data := make([]int, 1<<16)
	for i := range data {
		data[i] = len(data) - i
	}
	r.Begin()
	sort.Ints(data)
	r.Done()
}

// benchSort relies on the bench_ prefix for automatic timing.
func benchSort(r *suite.Record) {
	data := make([]int, 1<<16)
	for i := range data {
		data[i] = len(data) - i
	}
	sort.Ints(data)
}

func errorTest(r *suite.Record) {
	r.Error("a non-critical error occurred.")
	time.Sleep(time.Millisecond)
	r.Error("and another one; the test keeps going.")
}

func failTest(r *suite.Record) {
	r.Fatal("a critical error occurred!")
}

func crashTest(_ *suite.Record) {
	var p *int
	_ = readThrough(p)
}

func readThrough(p *int) int {
	return *p
}
