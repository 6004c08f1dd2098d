package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		log, err := New(level)
		require.NoError(t, err, "level %q", level)
		require.NotNil(t, log)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	log, err := New("chatty")
	assert.Error(t, err)
	assert.Nil(t, log)
}
