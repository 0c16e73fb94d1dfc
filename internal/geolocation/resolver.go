// Package geolocation acquires the device position with a two-tier retry policy
// and reports failures in three user-facing categories.
package geolocation

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/outreach/internal/coords"
	"github.com/UnknownOlympus/outreach/internal/models"
)

var (
	// FastAttempt is a quick, coarse fix; a cached fix up to two minutes old is fine.
	FastAttempt = PositionOptions{EnableHighAccuracy: false, Timeout: 8 * time.Second, MaximumAge: 120 * time.Second}
	// PreciseAttempt is the retry: high accuracy, longer timeout, no cached fix.
	PreciseAttempt = PositionOptions{EnableHighAccuracy: true, Timeout: 15 * time.Second, MaximumAge: 0}
)

// Resolver acquires coordinates and publishes them to the coordinates channel.
type Resolver struct {
	locator     Locator
	permissions PermissionChecker
	bus         *coords.Bus
	log         *slog.Logger
	running     sync.Mutex
}

// NewResolver creates a resolver. permissions may be nil to skip the pre-flight check;
// a nil locator makes every resolution fail with ErrNotSupported.
func NewResolver(locator Locator, permissions PermissionChecker, bus *coords.Bus, log *slog.Logger) *Resolver {
	return &Resolver{locator: locator, permissions: permissions, bus: bus, log: log}
}

// Resolve acquires the current position. It tries FastAttempt first and, on any
// failure, PreciseAttempt once. When both fail the error of the second attempt is
// returned as a *PositionError. On success the coordinates are published to the bus.
// A pending resolution cannot be cancelled except through ctx.
func (r *Resolver) Resolve(ctx context.Context) (models.Coordinates, error) {
	if r.locator == nil {
		return models.Coordinates{}, ErrNotSupported
	}
	if !r.running.TryLock() {
		return models.Coordinates{}, ErrInProgress
	}
	defer r.running.Unlock()

	if r.permissions != nil {
		state, err := r.permissions.GeolocationPermission(ctx)
		switch {
		case err != nil:
			r.log.DebugContext(ctx, "Permission query failed, trying anyway", "error", err)
		case state == PermissionStateDenied:
			return models.Coordinates{}, &PositionError{Code: PermissionDenied, Message: "permission denied by user"}
		}
	}

	fix, err := r.attempt(ctx, FastAttempt)
	if err != nil {
		r.log.InfoContext(ctx, "Fast position attempt failed, retrying with high accuracy", "error", err)

		fix, err = r.attempt(ctx, PreciseAttempt)
		if err != nil {
			posErr := classify(err)
			r.log.WarnContext(ctx, "Position unavailable", "category", posErr.Code.String(), "error", err)
			return models.Coordinates{}, posErr
		}
	}

	if !fix.Valid() {
		return models.Coordinates{}, &PositionError{Code: PositionUnavailable, Message: "device returned invalid coordinates"}
	}

	r.bus.Set(fix)
	r.log.DebugContext(ctx, "Position resolved", "lat", fix.Latitude, "lng", fix.Longitude)

	return fix, nil
}

func (r *Resolver) attempt(ctx context.Context, opts PositionOptions) (models.Coordinates, error) {
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	fix, err := r.locator.CurrentPosition(ctx, opts)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return models.Coordinates{}, &PositionError{Code: Timeout, Message: err.Error()}
	}

	return fix, err
}
