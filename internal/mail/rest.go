package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"
)

// restEndpoint posts JSON payloads to a provider API and classifies the outcome.
type restEndpoint struct {
	name    string            // backend name for errors and logs
	client  HTTPClient        // HTTP client for making requests
	url     string            // send endpoint
	headers map[string]string // authorization headers
	limiter *rate.Limiter
	log     *slog.Logger
}

func (e *restEndpoint) post(ctx context.Context, payload any) error {
	if err := e.limiter.Wait(ctx); err != nil {
		return &TransportError{Provider: e.name, Err: fmt.Errorf("rate limit wait: %w", err)}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", e.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", e.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for key, value := range e.headers {
		req.Header.Set(key, value)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return &TransportError{Provider: e.name, Err: err}
	}
	defer resp.Body.Close()

	// An unreadable body only costs diagnostics, the status still decides.
	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		e.log.ErrorContext(ctx, "Mail provider API error",
			"provider", e.name, "status", resp.StatusCode, "body", string(respBody))
		return &ProviderError{Provider: e.name, Status: resp.StatusCode, Body: string(respBody)}
	}

	e.log.DebugContext(ctx, "Mail provider accepted message", "provider", e.name, "status", resp.StatusCode)

	return nil
}
