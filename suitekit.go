// Package suitekit wires the suite engine, registry, reporting and metrics
// into a runnable harness service.
package suitekit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/testinfra/suitekit/metrics"
	"github.com/testinfra/suitekit/registry"
	"github.com/testinfra/suitekit/suite"
)

// Harness runs a suite built from registered test functions, once or
// periodically, and reports the results.
type Harness struct {
	ctx       context.Context
	config    *Config
	version   string
	registry  *registry.Registry
	plan      *registry.Plan
	suite     *suite.Suite
	formatter ResultFormatter

	fatalFailures bool
	lastStats     *suite.Stats

	running    atomic.Bool
	done       chan struct{}
	wg         sync.WaitGroup
	metricsSrv *http.Server

	shutdownCallback func(error) // Callback to signal application shutdown
}

// New builds a harness from the configuration and a registry of test
// functions. When the config names a plan file it selects and orders the
// tests; otherwise every registered function runs in registration order.
func New(ctx context.Context, config *Config, version string, reg *registry.Registry, shutdownCallback func(error)) (*Harness, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if reg == nil {
		return nil, errors.New("registry is required")
	}
	if reg.Len() == 0 {
		return nil, errors.New("no test functions registered")
	}

	config.Log.Debugw("creating harness",
		"plan", config.PlanFile,
		"fatalFailures", config.FatalFailures,
		"runInterval", config.RunInterval,
		"runOnce", config.RunOnce)

	var plan *registry.Plan
	if config.PlanFile != "" {
		p, err := reg.LoadPlan(config.PlanFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load plan: %w", err)
		}
		plan = p
	}

	tests, err := reg.Build(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to build tests: %w", err)
	}

	s := suite.New(suite.Config{
		Log:   config.Log,
		Quiet: config.Quiet,
	})
	if err := s.Add(tests); err != nil {
		return nil, fmt.Errorf("failed to register tests: %w", err)
	}

	fatal := config.FatalFailures
	if plan != nil && plan.FatalFailures {
		fatal = true
	}

	return &Harness{
		ctx:              ctx,
		config:           config,
		version:          version,
		registry:         reg,
		plan:             plan,
		suite:            s,
		formatter:        NewConsoleResultFormatter(config.Log, config.Out),
		fatalFailures:    fatal,
		done:             make(chan struct{}),
		shutdownCallback: shutdownCallback,
	}, nil
}

// Suite exposes the underlying suite, mainly for stats queries.
func (h *Harness) Suite() *suite.Suite {
	return h.suite
}

// Start runs the suite immediately, then either exits (run-once mode) or
// keeps re-running it at the configured interval.
func (h *Harness) Start(ctx context.Context) error {
	h.ctx = ctx
	h.done = make(chan struct{})
	h.running.Store(true)

	if h.config.MetricsAddr != "" {
		h.startMetricsServer()
	}

	if h.config.RunOnce {
		h.config.Log.Infow("starting suitekit in run-once mode", "version", h.version)
	} else {
		h.config.Log.Infow("starting suitekit in continuous mode", "version", h.version, "interval", h.config.RunInterval)
	}

	if err := h.runSuite(ctx); err != nil {
		h.config.Log.Errorw("runtime error running suite", "error", err)
		if h.config.RunOnce {
			h.shutdownMetricsServer(ctx)
		}
		return err
	}

	if h.config.RunOnce {
		// The run is over; release the metrics listener so library callers
		// are not left with a stray goroutine and a bound socket.
		h.shutdownMetricsServer(ctx)
		if h.lastStats != nil && (h.lastStats.Failed > 0 || h.lastStats.Errored > 0) {
			return NewTestFailureError(h.lastStats.String())
		}
		// All tests passed; signal shutdown and report success.
		go func() {
			if h.shutdownCallback != nil {
				h.shutdownCallback(nil)
			}
		}()
		return nil
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		for {
			select {
			case <-time.After(h.config.RunInterval):
				if !h.running.Load() {
					return
				}
				h.config.Log.Infow("running periodic suite")
				if err := h.runSuite(h.ctx); err != nil {
					h.config.Log.Errorw("error running periodic suite", "error", err)
				}
			case <-h.done:
				h.config.Log.Debugw("done signal received, stopping periodic runner")
				return
			case <-ctx.Done():
				h.config.Log.Debugw("context canceled, stopping periodic runner")
				h.running.Store(false)
				return
			}
		}
	}()
	return nil
}

// runSuite performs one full run and reports the outcome. A fatal-failure
// abort is a test outcome, not a runtime error.
func (h *Harness) runSuite(ctx context.Context) error {
	if h.suite.State() != suite.StateNotStarted {
		h.suite.Reset()
	}

	err := h.suite.Run(ctx, h.fatalFailures)
	if err != nil && !errors.Is(err, suite.ErrFatalFailure) {
		return NewRuntimeError(err)
	}

	stats, statsErr := h.suite.Stats()
	if statsErr != nil {
		return NewRuntimeError(statsErr)
	}
	h.lastStats = stats

	if fmtErr := h.formatter.FormatStats(stats); fmtErr != nil {
		h.config.Log.Warnw("failed to format results", "error", fmtErr)
	}

	metrics.RecordSuiteRun(stats.RunID, runResult(stats), stats.Ran, stats.Failed, stats.Crashes, stats.Duration)
	h.config.Log.Infow("suite run completed",
		"run_id", stats.RunID,
		"ran", stats.Ran,
		"failed", stats.Failed,
		"errored", stats.Errored,
		"crashes", stats.Crashes,
		"success_rate", stats.SuccessRate)
	return nil
}

// Stop stops the harness service.
func (h *Harness) Stop(ctx context.Context) error {
	h.config.Log.Infow("stopping suitekit")

	if !h.running.Load() {
		h.config.Log.Debugw("service already stopped, nothing to do")
		return nil
	}
	h.running.Store(false)
	close(h.done)

	h.shutdownMetricsServer(ctx)

	h.config.Log.Infow("suitekit stopped successfully")
	return nil
}

// Stopped returns true if the harness service is stopped.
func (h *Harness) Stopped() bool {
	return !h.running.Load()
}

// WaitForShutdown blocks until all goroutines have terminated, or the
// context expires. Useful in tests to ensure complete cleanup.
func (h *Harness) WaitForShutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		h.config.Log.Warnw("timed out waiting for goroutines to terminate", "error", ctx.Err())
		return ctx.Err()
	}
}

func (h *Harness) shutdownMetricsServer(ctx context.Context) {
	if h.metricsSrv == nil {
		return
	}
	if err := h.metricsSrv.Shutdown(ctx); err != nil {
		h.config.Log.Warnw("metrics server shutdown failed", "error", err)
	}
}

func (h *Harness) startMetricsServer() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	h.metricsSrv = &http.Server{Addr: h.config.MetricsAddr, Handler: mux}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.config.Log.Infow("serving metrics", "addr", h.config.MetricsAddr)
		if err := h.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.config.Log.Errorw("metrics server failed", "error", err)
		}
	}()
}

func runResult(stats *suite.Stats) string {
	switch {
	case stats.Failed > 0:
		return string(suite.StatusFail)
	case stats.Errored > 0:
		return string(suite.StatusErr)
	default:
		return string(suite.StatusOkay)
	}
}
