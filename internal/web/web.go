// Package web renders the status board page.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"
	"time"

	"csb/statusboard/internal/cooldown"
	"csb/statusboard/internal/poller"
	"csb/statusboard/internal/statuscache"
)

//go:embed templates/*.html
var templateFS embed.FS

const DefaultButtonLabel = "Check Now"

// Page is the data of the index template.
type Page struct {
	ButtonID    string
	TableBodyID string
	FooterID    string

	ButtonLabel    string
	ButtonDisabled bool
	RetryInSeconds int

	Rows       []poller.Row
	FooterText string
	Timestamp  string
}

// NewPage builds the page for snap. The check button is disabled while the
// snapshot is younger than the cool-down period.
func NewPage(snap statuscache.Snapshot, now time.Time, period time.Duration) Page {
	resp := snap.Response()
	page := Page{
		ButtonID:    poller.ButtonID,
		TableBodyID: poller.TableBodyID,
		FooterID:    poller.FooterID,
		ButtonLabel: DefaultButtonLabel,
		Rows:        poller.Rows(resp.Services),
		FooterText:  poller.FooterPrefix + resp.LastChecked,
		Timestamp:   resp.Timestamp,
	}

	if snap.Checked() {
		if remaining := cooldown.Remaining(now, snap.CheckedAt, period); remaining > 0 {
			page.ButtonDisabled = true
			page.RetryInSeconds = int(math.Ceil(remaining.Seconds()))
		}
	}
	return page
}

type Renderer struct {
	index *template.Template
}

func NewRenderer() (*Renderer, error) {
	index, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{index: index}, nil
}

func (r *Renderer) RenderIndex(w io.Writer, page Page) error {
	return r.index.Execute(w, page)
}
