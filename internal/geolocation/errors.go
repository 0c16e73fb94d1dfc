package geolocation

import (
	"context"
	"errors"
	"fmt"
)

// ErrorCode is the category of a failed position acquisition. The numeric
// values follow the W3C GeolocationPositionError codes.
type ErrorCode int

const (
	PermissionDenied    ErrorCode = 1
	PositionUnavailable ErrorCode = 2
	Timeout             ErrorCode = 3
)

func (c ErrorCode) String() string {
	switch c {
	case PermissionDenied:
		return "permission denied"
	case PositionUnavailable:
		return "position unavailable"
	case Timeout:
		return "timeout"
	default:
		return fmt.Sprintf("unknown(%d)", int(c))
	}
}

// PositionError is a categorized acquisition failure.
type PositionError struct {
	Code    ErrorCode
	Message string // Message is the device-specific detail, may be empty.
}

func (e *PositionError) Error() string {
	if e.Message == "" {
		return "geolocation: " + e.Code.String()
	}

	return fmt.Sprintf("geolocation: %s: %s", e.Code, e.Message)
}

var (
	// ErrNotSupported is returned when no locator is available on this device.
	ErrNotSupported = errors.New("geolocation is not supported")
	// ErrInProgress is returned when a resolution is already running.
	ErrInProgress = errors.New("geolocation resolution already in progress")
)

// classify turns any acquisition error into a *PositionError.
func classify(err error) *PositionError {
	var posErr *PositionError
	switch {
	case errors.As(err, &posErr):
		return posErr
	case errors.Is(err, context.DeadlineExceeded):
		return &PositionError{Code: Timeout, Message: err.Error()}
	default:
		return &PositionError{Code: PositionUnavailable, Message: err.Error()}
	}
}

// UserMessage returns an actionable message for a resolution failure. Every
// message points the user to manual location selection.
func UserMessage(err error) string {
	if errors.Is(err, ErrNotSupported) {
		return "Az eszköz nem támogatja a helymeghatározást. Adja meg a helyet kézzel."
	}

	switch classify(err).Code {
	case PermissionDenied:
		return "A helymeghatározás nincs engedélyezve. Engedélyezze, vagy adja meg a helyet kézzel."
	case Timeout:
		return "A helymeghatározás túllépte az időkorlátot. Próbálja újra, vagy adja meg a helyet kézzel."
	default:
		return "A pozíció nem érhető el. Próbálja újra, vagy adja meg a helyet kézzel."
	}
}
