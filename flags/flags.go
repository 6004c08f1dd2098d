package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "SUITEKIT"

func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	Plan = &cli.StringFlag{
		Name:    "plan",
		Value:   "",
		EnvVars: prefixEnvVars("PLAN"),
		Usage:   "Path to a YAML suite plan (eg. 'suite.yaml'); omit to run every registered test",
	}
	FatalFailures = &cli.BoolFlag{
		Name:    "fatal-failures",
		Value:   false,
		EnvVars: prefixEnvVars("FATAL_FAILURES"),
		Usage:   "Abort the suite at the first failed test",
	}
	RunInterval = &cli.DurationFlag{
		Name:    "run-interval",
		Value:   0,
		EnvVars: prefixEnvVars("RUN_INTERVAL"),
		Usage:   "Interval between suite runs (e.g. '1h', '30m'). Set to 0 or omit for run-once mode.",
	}
	Quiet = &cli.BoolFlag{
		Name:    "quiet",
		Value:   false,
		EnvVars: prefixEnvVars("QUIET"),
		Usage:   "Suppress per-test status lines; only the summary is printed",
	}
	MetricsAddr = &cli.StringFlag{
		Name:    "metrics-addr",
		Value:   "",
		EnvVars: prefixEnvVars("METRICS_ADDR"),
		Usage:   "Address to serve Prometheus metrics on (eg. ':7300'); empty disables the server",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
		Usage:   "Log level: debug, info, warn, error",
	}
)

var requiredFlags = []cli.Flag{}

var optionalFlags = []cli.Flag{
	Plan,
	FatalFailures,
	RunInterval,
	Quiet,
	MetricsAddr,
	LogLevel,
}

var Flags []cli.Flag

func init() {
	Flags = append(requiredFlags, optionalFlags...)
}

// CheckRequired verifies that every required flag is set.
func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}
