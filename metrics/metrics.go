package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const MetricsNamespace = "suitekit"

var (
	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of harness errors",
	}, []string{
		"error",
	})

	testsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "tests_total",
		Help:      "Count of executed tests",
	}, []string{
		"run_id",
		"name",
		"status",
	})

	testDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "test_duration_seconds",
		Help:      "Measured duration of benchmark tests",
	}, []string{
		"run_id",
		"name",
	})

	suiteResults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_results",
		Help:      "Result of suite runs",
	}, []string{
		"run_id",
		"result",
	})

	suiteTestsRan = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_tests_ran",
		Help:      "Number of tests executed per suite run",
	}, []string{
		"run_id",
	})

	suiteTestsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_tests_failed",
		Help:      "Number of failed tests per suite run",
	}, []string{
		"run_id",
	})

	suiteCrashes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_crashes",
		Help:      "Number of memory faults caught per suite run",
	}, []string{
		"run_id",
	})

	suiteDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_duration_seconds",
		Help:      "Wall-clock duration of suite runs",
	}, []string{
		"run_id",
	})
)

// RecordError counts a harness-level error (not a test outcome).
func RecordError(err string) {
	errorsTotal.WithLabelValues(err).Inc()
}

// RecordTest counts one executed test with its final status.
func RecordTest(runID, name, status string, elapsed time.Duration) {
	testsTotal.WithLabelValues(runID, name, status).Inc()
	if elapsed > 0 {
		testDuration.WithLabelValues(runID, name).Set(elapsed.Seconds())
	}
}

// RecordSuiteRun records the aggregate outcome of a suite run.
func RecordSuiteRun(runID, result string, ran, failed, crashes int, duration time.Duration) {
	suiteResults.WithLabelValues(runID, result).Set(1)
	suiteTestsRan.WithLabelValues(runID).Add(float64(ran))
	suiteTestsFailed.WithLabelValues(runID).Add(float64(failed))
	suiteCrashes.WithLabelValues(runID).Add(float64(crashes))
	suiteDuration.WithLabelValues(runID).Set(duration.Seconds())
}
