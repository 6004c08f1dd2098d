package suitekit

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuntimeError(t *testing.T) {
	inner := errors.New("plan file unreadable")
	err := NewRuntimeError(inner)

	assert.True(t, IsRuntimeError(err))
	assert.False(t, IsTestFailureError(err))
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "runtime error")

	wrapped := fmt.Errorf("startup: %w", err)
	assert.True(t, IsRuntimeError(wrapped))
}

func TestTestFailureError(t *testing.T) {
	err := NewTestFailureError("2 of 5 tests failed")

	assert.True(t, IsTestFailureError(err))
	assert.False(t, IsRuntimeError(err))
	assert.Contains(t, err.Error(), "2 of 5 tests failed")

	wrapped := fmt.Errorf("run: %w", err)
	assert.True(t, IsTestFailureError(wrapped))
}

func TestNilErrorChecks(t *testing.T) {
	assert.False(t, IsRuntimeError(nil))
	assert.False(t, IsTestFailureError(nil))
}
