package suite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFail(t *testing.T) {
	rec := NewRecord("t")
	require.False(t, rec.Failed)
	require.True(t, rec.FailedAt.IsZero())

	rec.Fail("broken")
	assert.True(t, rec.Failed)
	assert.Equal(t, "broken", rec.FailMessage)
	assert.False(t, rec.FailedAt.IsZero())

	// A later Fail overwrites the message but never clears the flag.
	rec.Fail("still broken")
	assert.True(t, rec.Failed)
	assert.Equal(t, "still broken", rec.FailMessage)
}

func TestRecordErrorAccumulates(t *testing.T) {
	rec := NewRecord("t")
	rec.Error("first")
	rec.Error("second")
	rec.Error("third")

	assert.Equal(t, 3, rec.ErrorCount())
	assert.Equal(t, []string{"first", "second", "third"}, rec.ErrorMessages)
	assert.False(t, rec.ErrorAt.IsZero())
	assert.False(t, rec.Failed)
}

func TestRecordStatusPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(*Record)
		status Status
		passed bool
	}{
		{
			name:   "clean",
			setup:  func(*Record) {},
			status: StatusOkay,
			passed: true,
		},
		{
			name:   "errored",
			setup:  func(r *Record) { r.Error("oops") },
			status: StatusErr,
			passed: false,
		},
		{
			name:   "failed",
			setup:  func(r *Record) { r.Fail("broken") },
			status: StatusFail,
			passed: false,
		},
		{
			name: "failed and errored reports failed",
			setup: func(r *Record) {
				r.Error("oops")
				r.Fail("broken")
			},
			status: StatusFail,
			passed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewRecord("t")
			tt.setup(rec)
			assert.Equal(t, tt.status, rec.Status())
			assert.Equal(t, tt.passed, rec.Passed())
		})
	}
}

func TestRecordTiming(t *testing.T) {
	rec := NewRecord("t")
	assert.Equal(t, time.Duration(0), rec.Elapsed())

	rec.Begin()
	assert.Equal(t, time.Duration(0), rec.Elapsed(), "elapsed needs both endpoints")

	time.Sleep(5 * time.Millisecond)
	rec.Done()
	first := rec.Elapsed()
	assert.Greater(t, first, time.Duration(0))

	// Done may be called again; the last call wins.
	time.Sleep(5 * time.Millisecond)
	rec.Done()
	assert.Greater(t, rec.Elapsed(), first)
}
