package geolocation_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/UnknownOlympus/outreach/internal/coords"
	"github.com/UnknownOlympus/outreach/internal/geolocation"
	"github.com/UnknownOlympus/outreach/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	fix models.Coordinates
	err error
}

// scriptedLocator answers each call with the next scripted result and records the options it saw.
type scriptedLocator struct {
	mu      sync.Mutex
	results []result
	seen    []geolocation.PositionOptions
}

func (s *scriptedLocator) CurrentPosition(_ context.Context, opts geolocation.PositionOptions) (models.Coordinates, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seen = append(s.seen, opts)
	next := s.results[0]
	s.results = s.results[1:]

	return next.fix, next.err
}

var budapest = models.Coordinates{Latitude: 47.4979, Longitude: 19.0402}

func TestResolver_Resolve(t *testing.T) {
	ctx := t.Context()
	logger := slog.Default()

	t.Run("fast attempt succeeds", func(t *testing.T) {
		bus := coords.NewBus()
		locator := &scriptedLocator{results: []result{{fix: budapest}}}

		fix, err := geolocation.NewResolver(locator, nil, bus, logger).Resolve(ctx)

		require.NoError(t, err)
		assert.Equal(t, budapest, fix)
		require.Len(t, locator.seen, 1)
		assert.Equal(t, geolocation.FastAttempt, locator.seen[0])

		current, ok := bus.Current()
		require.True(t, ok)
		assert.Equal(t, budapest, current)
	})

	t.Run("fast attempt fails, precise attempt succeeds", func(t *testing.T) {
		bus := coords.NewBus()
		locator := &scriptedLocator{results: []result{
			{err: &geolocation.PositionError{Code: geolocation.PositionUnavailable}},
			{fix: budapest},
		}}

		fix, err := geolocation.NewResolver(locator, nil, bus, logger).Resolve(ctx)

		require.NoError(t, err)
		assert.Equal(t, budapest, fix)
		assert.Equal(t, []geolocation.PositionOptions{geolocation.FastAttempt, geolocation.PreciseAttempt}, locator.seen)
	})

	t.Run("timeout then denied surfaces permission denied", func(t *testing.T) {
		bus := coords.NewBus()
		locator := &scriptedLocator{results: []result{
			{err: &geolocation.PositionError{Code: geolocation.Timeout}},
			{err: &geolocation.PositionError{Code: geolocation.PermissionDenied}},
		}}

		_, err := geolocation.NewResolver(locator, nil, bus, logger).Resolve(ctx)

		var posErr *geolocation.PositionError
		require.ErrorAs(t, err, &posErr)
		assert.Equal(t, geolocation.PermissionDenied, posErr.Code)
		assert.Len(t, locator.seen, 2, "retry happens exactly once")

		_, ok := bus.Current()
		assert.False(t, ok, "nothing is published on failure")
	})

	t.Run("unclassified error becomes position unavailable", func(t *testing.T) {
		locator := &scriptedLocator{results: []result{
			{err: errors.New("gps off")},
			{err: errors.New("gps still off")},
		}}

		_, err := geolocation.NewResolver(locator, nil, coords.NewBus(), logger).Resolve(ctx)

		var posErr *geolocation.PositionError
		require.ErrorAs(t, err, &posErr)
		assert.Equal(t, geolocation.PositionUnavailable, posErr.Code)
		assert.Contains(t, posErr.Message, "gps still off")
	})

	t.Run("denied permission skips the locator", func(t *testing.T) {
		locator := &scriptedLocator{}
		permissions := geolocation.PermissionFunc(func(context.Context) (geolocation.PermissionState, error) {
			return geolocation.PermissionStateDenied, nil
		})

		_, err := geolocation.NewResolver(locator, permissions, coords.NewBus(), logger).Resolve(ctx)

		var posErr *geolocation.PositionError
		require.ErrorAs(t, err, &posErr)
		assert.Equal(t, geolocation.PermissionDenied, posErr.Code)
		assert.Empty(t, locator.seen)
	})

	t.Run("failing permission query still tries the locator", func(t *testing.T) {
		locator := &scriptedLocator{results: []result{{fix: budapest}}}
		permissions := geolocation.PermissionFunc(func(context.Context) (geolocation.PermissionState, error) {
			return "", errors.New("permissions API unavailable")
		})

		fix, err := geolocation.NewResolver(locator, permissions, coords.NewBus(), logger).Resolve(ctx)

		require.NoError(t, err)
		assert.Equal(t, budapest, fix)
	})

	t.Run("no locator", func(t *testing.T) {
		_, err := geolocation.NewResolver(nil, nil, coords.NewBus(), logger).Resolve(ctx)

		require.ErrorIs(t, err, geolocation.ErrNotSupported)
	})
}

// blockingLocator waits until released or the attempt deadline fires.
type blockingLocator struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingLocator) CurrentPosition(ctx context.Context, _ geolocation.PositionOptions) (models.Coordinates, error) {
	b.entered <- struct{}{}
	select {
	case <-b.release:
		return budapest, nil
	case <-ctx.Done():
		return models.Coordinates{}, ctx.Err()
	}
}

func TestResolver_ConcurrentResolve(t *testing.T) {
	locator := &blockingLocator{entered: make(chan struct{}, 1), release: make(chan struct{})}
	resolver := geolocation.NewResolver(locator, nil, coords.NewBus(), slog.Default())

	done := make(chan error, 1)
	go func() {
		_, err := resolver.Resolve(t.Context())
		done <- err
	}()

	<-locator.entered
	_, err := resolver.Resolve(t.Context())
	require.ErrorIs(t, err, geolocation.ErrInProgress)

	close(locator.release)
	require.NoError(t, <-done)
}

func TestResolver_AttemptDeadlineIsTimeout(t *testing.T) {
	locator := &blockingLocator{entered: make(chan struct{}, 2), release: make(chan struct{})}
	resolver := geolocation.NewResolver(locator, nil, coords.NewBus(), slog.Default())

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	_, err := resolver.Resolve(ctx)

	var posErr *geolocation.PositionError
	require.ErrorAs(t, err, &posErr)
	assert.Equal(t, geolocation.Timeout, posErr.Code)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"denied", &geolocation.PositionError{Code: geolocation.PermissionDenied}, "nincs engedélyezve"},
		{"unavailable", &geolocation.PositionError{Code: geolocation.PositionUnavailable}, "nem érhető el"},
		{"timeout", &geolocation.PositionError{Code: geolocation.Timeout}, "időkorlátot"},
		{"deadline", context.DeadlineExceeded, "időkorlátot"},
		{"unsupported", geolocation.ErrNotSupported, "nem támogatja"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := geolocation.UserMessage(tt.err)

			assert.Contains(t, msg, tt.want)
			assert.Contains(t, msg, "kézzel", "every message offers manual selection")
		})
	}
}
