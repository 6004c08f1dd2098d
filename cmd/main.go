package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	suitekit "github.com/testinfra/suitekit"
	"github.com/testinfra/suitekit/exitcodes"
	"github.com/testinfra/suitekit/flags"
	"github.com/testinfra/suitekit/logging"
	"github.com/testinfra/suitekit/registry"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "suitekit"
	app.Usage = "Fault-isolating test suite runner"
	app.Description = "suitekit runs registered test functions one at a time, in isolation, and reports per-test results and aggregate statistics"
	app.Flags = flags.Flags
	app.Action = run
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			if suitekit.IsRuntimeError(err) {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.RuntimeErr))
			} else {
				// Test failures and anything unspecified exit with code 1.
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.TestFailure))
			}
		}
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitcodes.RuntimeErr)
	}
}

func run(cliCtx *cli.Context) error {
	log, err := logging.New(cliCtx.String(flags.LogLevel.Name))
	if err != nil {
		return suitekit.NewRuntimeError(err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := suitekit.NewConfig(cliCtx, log)
	if err != nil {
		return suitekit.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}

	reg := registry.New(registry.Config{Log: log})
	if err := registerDemoTests(reg); err != nil {
		return suitekit.NewRuntimeError(err)
	}

	ctx, stop := signal.NotifyContext(cliCtx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown := make(chan error, 1)
	harness, err := suitekit.New(ctx, cfg, Version, reg, func(err error) { shutdown <- err })
	if err != nil {
		return suitekit.NewRuntimeError(fmt.Errorf("failed to create harness: %w", err))
	}

	if err := harness.Start(ctx); err != nil {
		return err
	}
	if cfg.RunOnce {
		return nil
	}

	select {
	case err := <-shutdown:
		if err != nil {
			log.Errorw("shutting down after error", "error", err)
		}
	case <-ctx.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return harness.Stop(stopCtx)
}
