package relay

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/outreach/internal/models"
)

const mapLinkFormat = "https://www.google.com/maps?q=%s,%s"

var notificationTemplate = template.Must(template.New("notification").Parse(`
<div style="font-family:Arial,Helvetica,sans-serif">
  <h2 style="color:#9d1b31;margin:0 0 12px">Új bejelentés</h2>
  <p><b>Név:</b> {{.Name}}</p>
  <p><b>Leírás:</b><br>{{range $i, $line := .DescriptionLines}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>
  {{- if .MapLink}}
  <p><b>Hely:</b> {{.Latitude}}, {{.Longitude}} - <a href="{{.MapLink}}" target="_blank">Megnyitás térképen</a></p>
  {{- end}}
  {{- if .Address}}
  <p><b>Cím:</b> {{.Address}}</p>
  {{- end}}
  {{- if .Photo}}
  <p><img src="{{.Photo}}" style="max-width:520px;border-radius:8px"/></p>
  {{- end}}
</div>
`))

type notificationView struct {
	Name             string
	DescriptionLines []string
	Latitude         string
	Longitude        string
	MapLink          string
	Address          string
	Photo            template.URL
}

// notification is the render input: a decoded request plus optional enrichment.
type notification struct {
	Name        string
	Description string
	Coordinates *models.Coordinates
	Photo       string
	Address     string
}

// subject builds the mail subject, falling back to a placeholder for anonymous reports.
func subject(prefix, name string) string {
	if strings.TrimSpace(name) == "" {
		name = "Névtelen"
	}

	return prefix + ": " + name
}

// render produces the HTML document. Photo must already be standard base64,
// see normalizePhoto.
func render(n notification) (string, error) {
	view := notificationView{
		Name:             n.Name,
		DescriptionLines: strings.Split(strings.ReplaceAll(n.Description, "\r\n", "\n"), "\n"),
		Address:          n.Address,
	}
	if strings.TrimSpace(view.Name) == "" {
		view.Name = "N/A"
	}

	if n.Coordinates != nil {
		view.Latitude = strconv.FormatFloat(n.Coordinates.Latitude, 'f', -1, 64)
		view.Longitude = strconv.FormatFloat(n.Coordinates.Longitude, 'f', -1, 64)
		view.MapLink = fmt.Sprintf(mapLinkFormat, view.Latitude, view.Longitude)
	}

	if n.Photo != "" {
		// Safe: normalizePhoto re-encodes to the base64 alphabet.
		view.Photo = template.URL("data:image/*;base64," + n.Photo)
	}

	var buf bytes.Buffer
	if err := notificationTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to execute notification template: %w", err)
	}

	return buf.String(), nil
}
