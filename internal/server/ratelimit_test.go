package server

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientLimiterPerMinute(t *testing.T) {
	l := NewClientLimiter(2, 0)

	require.NoError(t, l.Allow("10.0.0.1", 100))
	require.NoError(t, l.Allow("10.0.0.1", 100))

	err := l.Allow("10.0.0.1", 100)
	require.Error(t, err)

	var le *LimitError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "requests", le.Kind)
	assert.Positive(t, le.RetryAfter)
	assert.Contains(t, err.Error(), "requests limit exceeded")
}

func TestClientLimiterTracksClientsSeparately(t *testing.T) {
	l := NewClientLimiter(1, 0)

	require.NoError(t, l.Allow("10.0.0.1", 0))
	require.Error(t, l.Allow("10.0.0.1", 0))
	require.NoError(t, l.Allow("10.0.0.2", 0))
}

func TestClientLimiterDailyUploadCap(t *testing.T) {
	l := NewClientLimiter(0, 1000)

	require.NoError(t, l.Allow("10.0.0.1", 600))
	require.NoError(t, l.Allow("10.0.0.1", 400))

	err := l.Allow("10.0.0.1", 1)
	require.Error(t, err)

	var le *LimitError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "upload", le.Kind)
}

func TestClientLimiterZeroLimitsDisabled(t *testing.T) {
	l := NewClientLimiter(0, 0)
	for i := 0; i < 100; i++ {
		require.NoError(t, l.Allow("10.0.0.1", 1<<20))
	}
}
