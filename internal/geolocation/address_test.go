package geolocation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/UnknownOlympus/outreach/internal/geolocation"
	"github.com/UnknownOlympus/outreach/internal/models"
	"github.com/UnknownOlympus/outreach/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAddressLocator(t *testing.T) {
	const address = "Budapest, Blaha Lujza tér"

	t.Run("resolves address", func(t *testing.T) {
		geocoder := mocks.NewGeocoder(t)
		geocoder.On("Geocode", mock.Anything, address).Return(&budapest, nil).Once()

		fix, err := geolocation.NewAddressLocator(geocoder, address).
			CurrentPosition(t.Context(), geolocation.FastAttempt)

		require.NoError(t, err)
		assert.Equal(t, budapest, fix)
	})

	t.Run("deadline is a timeout", func(t *testing.T) {
		geocoder := mocks.NewGeocoder(t)
		geocoder.On("Geocode", mock.Anything, address).Return(nil, context.DeadlineExceeded).Once()

		_, err := geolocation.NewAddressLocator(geocoder, address).
			CurrentPosition(t.Context(), geolocation.FastAttempt)

		var posErr *geolocation.PositionError
		require.ErrorAs(t, err, &posErr)
		assert.Equal(t, geolocation.Timeout, posErr.Code)
	})

	t.Run("lookup failure is position unavailable", func(t *testing.T) {
		geocoder := mocks.NewGeocoder(t)
		geocoder.On("Geocode", mock.Anything, address).Return((*models.Coordinates)(nil), errors.New("no results")).Once()

		_, err := geolocation.NewAddressLocator(geocoder, address).
			CurrentPosition(t.Context(), geolocation.FastAttempt)

		var posErr *geolocation.PositionError
		require.ErrorAs(t, err, &posErr)
		assert.Equal(t, geolocation.PositionUnavailable, posErr.Code)
	})
}
