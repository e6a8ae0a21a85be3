package termview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"csb/statusboard/internal/poller"
)

func init() {
	color.NoColor = true
}

func TestView_ReplaceRows(t *testing.T) {
	var buf bytes.Buffer
	v := New(&buf, "Check Now")

	v.ReplaceRows([]poller.Row{
		{Name: "PostgreSQL", Status: "OK", Details: "Connection successful.", BadgeClass: poller.BadgeOK},
		{Name: "Redis", Status: "Error", Details: "refused", BadgeClass: poller.BadgeError},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "SERVICE"))
	assert.Contains(t, lines[1], "PostgreSQL")
	assert.Contains(t, lines[2], "refused")
}

func TestView_StripsControlCharacters(t *testing.T) {
	var buf bytes.Buffer
	v := New(&buf, "Check Now")

	v.ReplaceRows([]poller.Row{{Name: "evil\x1b[2J", Status: "OK", Details: "a\tb\nc", BadgeClass: poller.BadgeOK}})

	assert.NotContains(t, buf.String(), "\x1b")
	assert.Contains(t, buf.String(), "evil[2J")
	assert.Contains(t, buf.String(), "a bc")
}

func TestView_ButtonState(t *testing.T) {
	var buf bytes.Buffer
	v := New(&buf, "Check Now")

	assert.False(t, v.ButtonEnabled())
	v.SetButtonEnabled(true)
	assert.True(t, v.ButtonEnabled())
	assert.Contains(t, buf.String(), "[Check Now] press Enter to check")

	v.SetButtonLabel(poller.WorkingLabel)
	assert.Equal(t, poller.WorkingLabel, v.ButtonLabel())
	assert.Contains(t, buf.String(), poller.WorkingLabel)
}

func TestView_Footer(t *testing.T) {
	var buf bytes.Buffer
	v := New(&buf, "Check Now")

	_, ok := v.FooterTimestamp()
	assert.False(t, ok)

	v.SetFooter("Last checked: 2026-10-17 12:00:00 UTC", "2026-10-17T12:00:00Z")
	ts, ok := v.FooterTimestamp()
	assert.True(t, ok)
	assert.Equal(t, "2026-10-17T12:00:00Z", ts)
	assert.Contains(t, buf.String(), "Last checked: 2026-10-17 12:00:00 UTC")

	v.SetFooter("Last checked: 2026-10-17 12:01:00 UTC", "")
	_, ok = v.FooterTimestamp()
	assert.False(t, ok)
}

func TestView_ErrorAndAlert(t *testing.T) {
	var buf bytes.Buffer
	v := New(&buf, "Check Now")

	v.ShowError(poller.ErrorRowMessage)
	v.Alert(poller.AlertMessage)

	assert.Contains(t, buf.String(), poller.ErrorRowMessage)
	assert.Contains(t, buf.String(), "! "+poller.AlertMessage)
}
