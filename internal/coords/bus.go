// Package coords holds the shared "current pick" of coordinates. The geolocation
// resolver and manual map selection publish into it, the report form reads from
// it. Last write wins and no history is kept.
package coords

import (
	"github.com/UnknownOlympus/outreach/internal/broadcast"
	"github.com/UnknownOlympus/outreach/internal/models"
)

// Bus is the coordinates channel. Its initial value is absent.
type Bus struct {
	latest *broadcast.Latest[models.Coordinates]
}

// NewBus creates an empty coordinates channel.
func NewBus() *Bus {
	return &Bus{latest: broadcast.NewLatest[models.Coordinates]()}
}

// Set publishes a new pick, replacing the previous one.
func (b *Bus) Set(c models.Coordinates) {
	b.latest.Publish(c)
}

// Current returns the current pick, if any.
func (b *Bus) Current() (models.Coordinates, bool) {
	return b.latest.Get()
}

// Subscribe delivers the current pick (when present) and every later one.
func (b *Bus) Subscribe() (<-chan models.Coordinates, func()) {
	return b.latest.Subscribe()
}
