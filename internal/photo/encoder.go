// Package photo turns a user-selected image file into the base64 payload carried
// by a report.
package photo

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// ErrNoSelection is returned by Payload when no file has been selected.
var ErrNoSelection = errors.New("no photo selected")

// DataURI renders raw file contents as a data URI. The MIME type is sniffed from
// the content; anything that is not recognised as an image gets "image/*".
func DataURI(data []byte) string {
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		mime = "image/*"
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// StripPrefix drops everything up to and including the first comma of a data URI.
// Input without a comma is returned unchanged.
func StripPrefix(dataURI string) string {
	if _, payload, found := strings.Cut(dataURI, ","); found {
		return payload
	}

	return dataURI
}

type selection struct {
	done    chan struct{}
	payload string
	err     error
}

// Encoder reads selected files from a filesystem. Selections run in the
// background and a new selection supersedes any pending one.
type Encoder struct {
	fs afero.Fs

	mu      sync.Mutex
	current *selection
}

// NewEncoder creates an encoder reading from fs.
func NewEncoder(fs afero.Fs) *Encoder {
	return &Encoder{fs: fs}
}

// Encode reads path and returns its base64 payload without the data URI prefix.
// No size limit is applied.
func (e *Encoder) Encode(path string) (string, error) {
	data, err := afero.ReadFile(e.fs, path)
	if err != nil {
		return "", fmt.Errorf("failed to read photo %q: %w", path, err)
	}

	return StripPrefix(DataURI(data)), nil
}

// Select starts encoding path in the background. Only the most recent selection
// is visible through Payload.
func (e *Encoder) Select(path string) {
	sel := &selection{done: make(chan struct{})}

	e.mu.Lock()
	e.current = sel
	e.mu.Unlock()

	go func() {
		sel.payload, sel.err = e.Encode(path)
		close(sel.done)
	}()
}

// Clear drops the current selection.
func (e *Encoder) Clear() {
	e.mu.Lock()
	e.current = nil
	e.mu.Unlock()
}

// Payload waits for the most recent selection to finish and returns its payload.
func (e *Encoder) Payload(ctx context.Context) (string, error) {
	e.mu.Lock()
	sel := e.current
	e.mu.Unlock()

	if sel == nil {
		return "", ErrNoSelection
	}

	select {
	case <-sel.done:
		return sel.payload, sel.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
