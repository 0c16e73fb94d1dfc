package coords_test

import (
	"testing"

	"github.com/UnknownOlympus/outreach/internal/coords"
	"github.com/UnknownOlympus/outreach/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus(t *testing.T) {
	bus := coords.NewBus()

	_, ok := bus.Current()
	require.False(t, ok, "initial value must be absent")

	updates, cancel := bus.Subscribe()
	defer cancel()

	bus.Set(models.Coordinates{Latitude: 47.4979, Longitude: 19.0402})
	bus.Set(models.Coordinates{Latitude: 47.50, Longitude: 19.04})

	current, ok := bus.Current()
	require.True(t, ok)
	assert.Equal(t, models.Coordinates{Latitude: 47.50, Longitude: 19.04}, current)
	assert.Equal(t, current, <-updates)
}
