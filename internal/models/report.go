package models

// Report is a single citizen-submitted observation: who reported, what they saw,
// where it happened and an optional photo. A Report is never modified after it
// has been built.
type Report struct {
	Name        string  `json:"name"`            // Name is the reporter's display name.
	Description string  `json:"description"`     // Description is free text; newlines are significant.
	Latitude    float64 `json:"latitude"`        // Latitude in degrees.
	Longitude   float64 `json:"longitude"`       // Longitude in degrees.
	Photo       string  `json:"photo,omitempty"` // Photo is a base64 payload without a data URI prefix.
}

// Coordinates returns the location of the report.
func (r Report) Coordinates() Coordinates {
	return Coordinates{Latitude: r.Latitude, Longitude: r.Longitude}
}

// HasPhoto reports whether a photo is attached.
func (r Report) HasPhoto() bool {
	return r.Photo != ""
}
