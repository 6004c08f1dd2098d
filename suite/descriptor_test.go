package suite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTest(t *testing.T) {
	noop := func(*Record) {}

	tests := []struct {
		name     string
		testName string
		desc     string
		fn       TestFunc
		wantErr  error
	}{
		{
			name:     "valid",
			testName: "ok",
			desc:     "does nothing",
			fn:       noop,
		},
		{
			name:     "empty description is allowed",
			testName: "ok",
			fn:       noop,
		},
		{
			name:    "missing name",
			fn:      noop,
			wantErr: ErrNoName,
		},
		{
			name:     "missing function",
			testName: "ok",
			wantErr:  ErrNoFunc,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			test, err := NewTest(tt.testName, tt.desc, tt.fn)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, test)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.testName, test.Name)
			assert.Equal(t, tt.desc, test.Description)
		})
	}
}

type countingRunnable struct {
	calls int
}

func (c *countingRunnable) Run(*Record) { c.calls++ }

func TestNewRunnable(t *testing.T) {
	r := &countingRunnable{}
	test, err := NewRunnable("counted", "", r)
	require.NoError(t, err)

	test.Run(NewRecord("counted"))
	test.Run(NewRecord("counted"))
	assert.Equal(t, 2, r.calls)

	_, err = NewRunnable("nil body", "", nil)
	assert.ErrorIs(t, err, ErrNoFunc)
}
