// Package mail delivers rendered report notifications through exactly one
// transactional-email backend chosen at startup.
package mail

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Message is a rendered notification ready for delivery.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Provider delivers a Message through a mail backend.
type Provider interface {
	// Name is the human-readable backend name used in error envelopes, e.g. "SendGrid".
	Name() string
	Send(ctx context.Context, msg Message) error
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Common errors returned while building providers.
var (
	ErrMissingCredential   = errors.New("mail provider credential is missing")
	ErrUnsupportedProvider = errors.New("unsupported mail provider")
)

// ProviderError is returned when the backend answered with a non-success status.
type ProviderError struct {
	Provider string // Provider is the backend name.
	Status   int    // Status is the HTTP status or SMTP reply code.
	Body     string // Body is the raw backend response.
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.Status, e.Body)
}

// TransportError is returned when the backend could not be reached at all.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
