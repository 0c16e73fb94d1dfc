package geolocation

import (
	"context"
	"testing"
	"time"

	"github.com/UnknownOlympus/outreach/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLocator struct {
	calls int
	fix   models.Coordinates
}

func (c *countingLocator) CurrentPosition(context.Context, PositionOptions) (models.Coordinates, error) {
	c.calls++
	return c.fix, nil
}

func TestCachedLocator(t *testing.T) {
	inner := &countingLocator{fix: models.Coordinates{Latitude: 47.5, Longitude: 19.04}}
	cached := NewCachedLocator(inner)

	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cached.now = func() time.Time { return clock }

	_, err := cached.CurrentPosition(t.Context(), FastAttempt)
	require.NoError(t, err)
	require.Equal(t, 1, inner.calls)

	clock = clock.Add(time.Minute)
	fix, err := cached.CurrentPosition(t.Context(), FastAttempt)
	require.NoError(t, err)
	assert.Equal(t, inner.fix, fix)
	assert.Equal(t, 1, inner.calls, "fix younger than MaximumAge is served from cache")

	_, err = cached.CurrentPosition(t.Context(), PreciseAttempt)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls, "MaximumAge 0 always asks the device")

	clock = clock.Add(3 * time.Minute)
	_, err = cached.CurrentPosition(t.Context(), FastAttempt)
	require.NoError(t, err)
	assert.Equal(t, 3, inner.calls, "stale fix is refreshed")
}

func TestClassify(t *testing.T) {
	assert.Equal(t, Timeout, classify(context.DeadlineExceeded).Code)
	assert.Equal(t, PermissionDenied, classify(&PositionError{Code: PermissionDenied}).Code)
	assert.Equal(t, PositionUnavailable, classify(assert.AnError).Code)
}
