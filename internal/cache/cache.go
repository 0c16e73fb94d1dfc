// Package cache keeps the reports submitted from this device, newest first, and
// persists them as JSON in a named slot on a filesystem.
package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/UnknownOlympus/outreach/internal/broadcast"
	"github.com/UnknownOlympus/outreach/internal/models"
	"github.com/spf13/afero"
)

// DefaultSlot is the name of the slot holding the report sequence.
const DefaultSlot = "homeless-reporter.reports"

// Cache is the local report cache. Persistence is best-effort: storage failures
// are logged and never returned.
type Cache struct {
	fs   afero.Fs
	path string
	log  *slog.Logger

	mu      sync.Mutex
	reports []models.Report
	stream  *broadcast.Latest[[]models.Report]
}

// New creates a cache persisting to the named slot inside dir.
func New(fs afero.Fs, dir, slot string, log *slog.Logger) *Cache {
	return &Cache{
		fs:     fs,
		path:   filepath.Join(dir, slot),
		log:    log,
		stream: broadcast.NewLatestWith([]models.Report{}),
	}
}

// Load reads the persisted sequence. A missing, unreadable or malformed slot
// yields an empty sequence.
func (c *Cache) Load() []models.Report {
	reports, err := c.read()
	if err != nil {
		c.log.Warn("Failed to load report cache, starting empty", "path", c.path, "error", err)
		reports = []models.Report{}
	}

	c.mu.Lock()
	c.reports = reports
	c.stream.Publish(snapshot(reports))
	c.mu.Unlock()

	return snapshot(reports)
}

// Append prepends r to the sequence and persists the whole sequence.
func (c *Cache) Append(r models.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reports = append([]models.Report{r}, c.reports...)
	c.stream.Publish(snapshot(c.reports))

	if err := c.write(c.reports); err != nil {
		c.log.Warn("Failed to persist report cache", "path", c.path, "error", err)
	}
}

// Reports returns the current sequence, newest first.
func (c *Cache) Reports() []models.Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	return snapshot(c.reports)
}

// Subscribe delivers the full sequence now and after every change. A slow
// subscriber only sees the newest sequence.
func (c *Cache) Subscribe() (<-chan []models.Report, func()) {
	return c.stream.Subscribe()
}

func (c *Cache) read() ([]models.Report, error) {
	exists, err := afero.Exists(c.fs, c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat slot: %w", err)
	}
	if !exists {
		return []models.Report{}, nil
	}

	raw, err := afero.ReadFile(c.fs, c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read slot: %w", err)
	}

	var reports []models.Report
	if err = json.Unmarshal(raw, &reports); err != nil {
		return nil, fmt.Errorf("failed to decode slot: %w", err)
	}
	if reports == nil {
		reports = []models.Report{}
	}

	return reports, nil
}

func (c *Cache) write(reports []models.Report) error {
	raw, err := json.Marshal(reports)
	if err != nil {
		return fmt.Errorf("failed to encode reports: %w", err)
	}

	if err = c.fs.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	if err = afero.WriteFile(c.fs, c.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write slot: %w", err)
	}

	return nil
}

func snapshot(reports []models.Report) []models.Report {
	out := make([]models.Report, len(reports))
	copy(out, reports)

	return out
}
