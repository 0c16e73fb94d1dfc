// Package client submits reports to the notification relay.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/UnknownOlympus/outreach/internal/models"
)

// DefaultEndpoint is the relay path appended to a bare base URL.
const DefaultEndpoint = "/api/send-report"

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Recorder stores successfully submitted reports.
type Recorder interface {
	Append(r models.Report)
}

// SubmissionError is a failed submission. StatusCode is 0 when the relay was not reached.
type SubmissionError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *SubmissionError) Error() string {
	var sb strings.Builder
	sb.WriteString("submission failed")
	if e.StatusCode != 0 {
		fmt.Fprintf(&sb, " (HTTP %d)", e.StatusCode)
	}
	if e.Message != "" {
		sb.WriteString(": " + e.Message)
	}
	if e.Detail != "" {
		sb.WriteString(": " + e.Detail)
	}

	return sb.String()
}

// relayEnvelope mirrors the relay response body. Detail may be any JSON value.
type relayEnvelope struct {
	OK     bool            `json:"ok"`
	Error  string          `json:"error"`
	Detail json.RawMessage `json:"detail"`
}

// Client posts reports to the relay and records the successful ones.
type Client struct {
	http     HTTPClient
	url      string
	recorder Recorder
	log      *slog.Logger
}

// New creates a client for the relay at url using a default HTTP client.
func New(url string, recorder Recorder, log *slog.Logger) *Client {
	const timeout = 30

	return NewWithClient(&http.Client{Timeout: timeout * time.Second}, url, recorder, log)
}

// NewWithClient creates a client with a custom HTTP client.
func NewWithClient(httpClient HTTPClient, url string, recorder Recorder, log *slog.Logger) *Client {
	return &Client{http: httpClient, url: url, recorder: recorder, log: log}
}

// Submit sends r to the relay. On success r is recorded before Submit returns;
// on failure the recorder is not touched and the error is a *SubmissionError.
func (c *Client) Submit(ctx context.Context, r models.Report) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return &SubmissionError{Message: "failed to encode report", Detail: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return &SubmissionError{Message: "failed to create request", Detail: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.DebugContext(ctx, "Submitting report", "url", c.url, "name", r.Name, "photo", r.HasPhoto())

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.ErrorContext(ctx, "Relay unreachable", "error", err)
		return &SubmissionError{Message: "network error", Detail: err.Error()}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		subErr := parseFailure(resp.StatusCode, body)
		if subErr.Detail == "" && readErr != nil {
			subErr.Detail = "failed to read response: " + readErr.Error()
		}
		c.log.ErrorContext(ctx, "Relay rejected report", "status", resp.StatusCode, "error", subErr.Message)
		return subErr
	}

	c.recorder.Append(r)
	c.log.InfoContext(ctx, "Report submitted", "name", r.Name)

	return nil
}

func parseFailure(status int, body []byte) *SubmissionError {
	subErr := &SubmissionError{StatusCode: status, Message: http.StatusText(status)}

	var env relayEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		subErr.Detail = strings.TrimSpace(string(body))
		return subErr
	}

	if env.Error != "" {
		subErr.Message = env.Error
	}
	if len(env.Detail) > 0 {
		var text string
		if json.Unmarshal(env.Detail, &text) == nil {
			subErr.Detail = text
		} else {
			subErr.Detail = string(env.Detail)
		}
	}

	return subErr
}
