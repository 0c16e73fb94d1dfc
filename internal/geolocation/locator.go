package geolocation

import (
	"context"
	"sync"
	"time"

	"github.com/UnknownOlympus/outreach/internal/models"
)

// PositionOptions tune a single acquisition attempt.
type PositionOptions struct {
	EnableHighAccuracy bool          // EnableHighAccuracy asks for the most precise fix available.
	Timeout            time.Duration // Timeout bounds the attempt.
	MaximumAge         time.Duration // MaximumAge allows a cached fix up to this age; 0 forbids caching.
}

// Locator is the device positioning capability.
type Locator interface {
	CurrentPosition(ctx context.Context, opts PositionOptions) (models.Coordinates, error)
}

// PermissionState is the device's answer to a geolocation permission query.
type PermissionState string

const (
	PermissionStateGranted PermissionState = "granted"
	PermissionStateDenied  PermissionState = "denied"
	PermissionStatePrompt  PermissionState = "prompt"
)

// PermissionChecker queries the geolocation permission without acquiring a position.
type PermissionChecker interface {
	GeolocationPermission(ctx context.Context) (PermissionState, error)
}

// PermissionFunc adapts a function to PermissionChecker.
type PermissionFunc func(ctx context.Context) (PermissionState, error)

// GeolocationPermission implements PermissionChecker.
func (f PermissionFunc) GeolocationPermission(ctx context.Context) (PermissionState, error) {
	return f(ctx)
}

// CachedLocator serves a previous fix when the caller's MaximumAge allows it.
type CachedLocator struct {
	inner Locator
	now   func() time.Time

	mu      sync.Mutex
	last    models.Coordinates
	lastAt  time.Time
	hasLast bool
}

// NewCachedLocator wraps inner with a last-fix cache.
func NewCachedLocator(inner Locator) *CachedLocator {
	return &CachedLocator{inner: inner, now: time.Now}
}

// CurrentPosition implements Locator.
func (cl *CachedLocator) CurrentPosition(ctx context.Context, opts PositionOptions) (models.Coordinates, error) {
	cl.mu.Lock()
	if cl.hasLast && opts.MaximumAge > 0 && cl.now().Sub(cl.lastAt) <= opts.MaximumAge {
		fix := cl.last
		cl.mu.Unlock()
		return fix, nil
	}
	cl.mu.Unlock()

	fix, err := cl.inner.CurrentPosition(ctx, opts)
	if err != nil {
		return models.Coordinates{}, err
	}

	cl.mu.Lock()
	cl.last, cl.lastAt, cl.hasLast = fix, cl.now(), true
	cl.mu.Unlock()

	return fix, nil
}
