// Package exitcodes defines the standard exit codes used by suitekit.
package exitcodes

// Exit code constants used by the harness binary:
//
// * Success (0): every test in the suite passed cleanly
// * TestFailure (1): one or more tests failed or errored
// * RuntimeErr (2): configuration or runtime problems, not test outcomes
const (
	Success     = 0
	TestFailure = 1
	RuntimeErr  = 2
)
