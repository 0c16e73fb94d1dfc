// Package report assembles a Report from the form fields and the current
// coordinates pick.
package report

import (
	"errors"

	"github.com/UnknownOlympus/outreach/internal/coords"
	"github.com/UnknownOlympus/outreach/internal/models"
)

// ErrIncomplete is returned by Build when the form cannot be submitted yet.
var ErrIncomplete = errors.New("report is incomplete: name, description and coordinates are required")

// Form collects the user input for one report. Coordinates are not stored on the
// form; they are read from the coordinates channel at build time.
type Form struct {
	Name        string
	Description string
	Photo       string // Photo is an encoded payload, empty when none is attached.

	bus *coords.Bus
}

// NewForm creates an empty form bound to the coordinates channel.
func NewForm(bus *coords.Bus) *Form {
	return &Form{bus: bus}
}

// CanSubmit reports whether name and description are non-empty and a valid
// coordinates pick is present.
func (f *Form) CanSubmit() bool {
	if f.Name == "" || f.Description == "" {
		return false
	}

	pick, ok := f.bus.Current()

	return ok && pick.Valid()
}

// Build returns the assembled report. Callers must check CanSubmit first.
func (f *Form) Build() (models.Report, error) {
	if !f.CanSubmit() {
		return models.Report{}, ErrIncomplete
	}

	pick, _ := f.bus.Current()

	return models.Report{
		Name:        f.Name,
		Description: f.Description,
		Latitude:    pick.Latitude,
		Longitude:   pick.Longitude,
		Photo:       f.Photo,
	}, nil
}

// Reset clears the user input after a successful submission. The coordinates
// pick is kept.
func (f *Form) Reset() {
	f.Name, f.Description, f.Photo = "", "", ""
}
