package main

import (
	"bytes"
	"testing"

	"github.com/UnknownOlympus/outreach/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestPrintReports(t *testing.T) {
	t.Run("empty cache", func(t *testing.T) {
		var out bytes.Buffer
		printReports(&out, nil)

		assert.Equal(t, "Nincs helyben tárolt bejelentés.\n", out.String())
	})

	t.Run("newest first as stored", func(t *testing.T) {
		var out bytes.Buffer
		printReports(&out, []models.Report{
			{Name: "Béla", Description: "Underpass", Latitude: 47.49, Longitude: 19.07, Photo: "aGVsbG8="},
			{Name: "Anna", Description: "Park bench", Latitude: 47.5, Longitude: 19.04},
		})

		assert.Equal(t,
			"47.49000,19.07000\tBéla [fotó]\tUnderpass\n47.50000,19.04000\tAnna\tPark bench\n",
			out.String())
	})
}
