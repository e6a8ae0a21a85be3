// Package termview renders the status board widget on a terminal.
package termview

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/fatih/color"

	"csb/statusboard/internal/poller"
)

var (
	okBadge    = color.New(color.FgGreen, color.Bold)
	errorBadge = color.New(color.FgRed, color.Bold)
	dimmed     = color.New(color.Faint)
	alertColor = color.New(color.FgHiYellow, color.Bold)
)

// View implements poller.View on top of an io.Writer. Server-supplied text
// has control characters stripped so it cannot drive the terminal.
type View struct {
	out io.Writer

	mu        sync.Mutex
	label     string
	enabled   bool
	timestamp string
	hasStamp  bool
}

var _ poller.View = (*View)(nil)

func New(out io.Writer, label string) *View {
	return &View{out: out, label: label}
}

func (v *View) ButtonLabel() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.label
}

func (v *View) SetButtonLabel(label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if label == v.label {
		return
	}
	v.label = label
	if label == poller.WorkingLabel {
		fmt.Fprintln(v.out, dimmed.Sprint(label))
	}
}

func (v *View) ButtonEnabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.enabled
}

func (v *View) SetButtonEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if enabled == v.enabled {
		return
	}
	v.enabled = enabled
	if enabled {
		fmt.Fprintf(v.out, "[%s] press Enter to check\n", v.label)
	} else {
		fmt.Fprintf(v.out, "%s\n", dimmed.Sprintf("[%s] disabled", v.label))
	}
}

func (v *View) ReplaceRows(rows []poller.Row) {
	v.mu.Lock()
	defer v.mu.Unlock()

	tw := tabwriter.NewWriter(v.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SERVICE\tSTATUS\tDETAILS")
	for _, row := range rows {
		badge := errorBadge
		if row.BadgeClass == poller.BadgeOK {
			badge = okBadge
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			sanitize(row.Name),
			badge.Sprint(sanitize(row.Status)),
			sanitize(row.Details),
		)
	}
	_ = tw.Flush()
}

func (v *View) ShowError(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintln(v.out, errorBadge.Sprint(message))
}

func (v *View) SetFooter(text, timestamp string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.timestamp = timestamp
	v.hasStamp = timestamp != ""
	fmt.Fprintln(v.out, dimmed.Sprint(sanitize(text)))
}

func (v *View) FooterTimestamp() (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.timestamp, v.hasStamp
}

func (v *View) Alert(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintln(v.out, alertColor.Sprint("! "+message))
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' {
			return ' '
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
