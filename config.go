package suitekit

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/testinfra/suitekit/flags"
)

// Config holds the harness configuration.
type Config struct {
	PlanFile      string
	FatalFailures bool
	RunInterval   time.Duration // Interval between suite runs
	RunOnce       bool          // Exit after a single run
	Quiet         bool          // Suppress per-test status lines
	MetricsAddr   string        // Prometheus listen address; empty disables
	Log           *zap.SugaredLogger
	Out           io.Writer // Destination for the results table; nil means stdout
}

// NewConfig creates a Config from the cli context.
func NewConfig(ctx *cli.Context, log *zap.SugaredLogger) (*Config, error) {
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	planFile := ctx.String(flags.Plan.Name)
	if planFile != "" {
		abs, err := filepath.Abs(planFile)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve absolute path for plan %q: %w", planFile, err)
		}
		planFile = abs
	}

	runInterval := ctx.Duration(flags.RunInterval.Name)

	return &Config{
		PlanFile:      planFile,
		FatalFailures: ctx.Bool(flags.FatalFailures.Name),
		RunInterval:   runInterval,
		RunOnce:       runInterval == 0,
		Quiet:         ctx.Bool(flags.Quiet.Name),
		MetricsAddr:   ctx.String(flags.MetricsAddr.Name),
		Log:           log,
	}, nil
}
