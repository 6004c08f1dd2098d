// Package registry maps names to registered test functions and turns an
// optional YAML plan file into an ordered list of test descriptors.
package registry

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/testinfra/suitekit/suite"
)

// Registry is a catalog of named test functions. Host programs register
// functions in code; a plan file selects and orders them.
type Registry struct {
	log *zap.SugaredLogger

	mu    sync.RWMutex
	names []string // registration order
	funcs map[string]suite.TestFunc
}

// Config contains registry configuration.
type Config struct {
	Log *zap.SugaredLogger
}

// New creates an empty registry.
func New(cfg Config) *Registry {
	if cfg.Log == nil {
		cfg.Log = zap.NewNop().Sugar()
	}
	return &Registry{
		log:   cfg.Log,
		funcs: make(map[string]suite.TestFunc),
	}
}

// Register adds a named test function to the catalog. Names must be unique.
func (r *Registry) Register(name string, fn suite.TestFunc) error {
	if name == "" {
		return fmt.Errorf("registry: function name is required")
	}
	if fn == nil {
		return fmt.Errorf("registry: function %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.funcs[name]; ok {
		return fmt.Errorf("registry: function %q already registered", name)
	}
	r.funcs[name] = fn
	r.names = append(r.names, name)
	r.log.Debugw("registered test function", "name", name)
	return nil
}

// Len returns the number of registered functions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}

// Plan selects and orders tests from the catalog.
type Plan struct {
	Suite         string     `yaml:"suite"`
	FatalFailures bool       `yaml:"fatal_failures"`
	Tests         []PlanTest `yaml:"tests"`
}

// PlanTest is one entry in a plan. Func names the registered function and
// defaults to the test's name.
type PlanTest struct {
	Name        string `yaml:"name"`
	Func        string `yaml:"func,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// LoadPlan reads and validates a YAML plan file against the catalog.
func (r *Registry) LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan file: %w", err)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parse plan file %q: %w", path, err)
	}
	if len(plan.Tests) == 0 {
		return nil, fmt.Errorf("plan %q lists no tests", path)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for i, pt := range plan.Tests {
		if pt.Name == "" {
			return nil, fmt.Errorf("plan %q: test %d has no name", path, i)
		}
		fn := pt.Func
		if fn == "" {
			fn = pt.Name
		}
		if _, ok := r.funcs[fn]; !ok {
			return nil, fmt.Errorf("plan %q: test %q references unknown function %q", path, pt.Name, fn)
		}
	}
	r.log.Debugw("plan loaded", "path", path, "suite", plan.Suite, "tests", len(plan.Tests))
	return &plan, nil
}

// Build turns a plan into test descriptors in plan order. A nil plan builds
// every registered function in registration order.
func (r *Registry) Build(plan *Plan) ([]*suite.Test, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if plan == nil {
		tests := make([]*suite.Test, 0, len(r.names))
		for _, name := range r.names {
			t, err := suite.NewTest(name, "", r.funcs[name])
			if err != nil {
				return nil, err
			}
			tests = append(tests, t)
		}
		return tests, nil
	}

	tests := make([]*suite.Test, 0, len(plan.Tests))
	for _, pt := range plan.Tests {
		fnName := pt.Func
		if fnName == "" {
			fnName = pt.Name
		}
		fn, ok := r.funcs[fnName]
		if !ok {
			return nil, fmt.Errorf("registry: unknown function %q for test %q", fnName, pt.Name)
		}
		t, err := suite.NewTest(pt.Name, pt.Description, fn)
		if err != nil {
			return nil, fmt.Errorf("registry: build test %q: %w", pt.Name, err)
		}
		tests = append(tests, t)
	}
	return tests, nil
}
