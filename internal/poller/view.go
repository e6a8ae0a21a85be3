package poller

import "csb/statusboard/internal/models"

const (
	// WorkingLabel replaces the button label while a check is in flight.
	WorkingLabel = "Checking..."

	FooterPrefix = "Last checked: "

	ErrorRowMessage = "Failed to fetch status. Please try again."
	AlertMessage    = "Failed to fetch status. Please check the console for details."

	BadgeOK    = "status-ok"
	BadgeError = "status-error"
)

// Element ids of the page the widget is mounted on.
const (
	ButtonID    = "check-status-btn"
	TableBodyID = "status-table-body"
	FooterID    = "footer-time"

	// TimestampAttr holds the raw timestamp of the last successful check.
	TimestampAttr = "data-timestamp"
)

// Row is one rendered table row. Every field is plain text.
type Row struct {
	Name       string
	Status     string
	Details    string
	BadgeClass string
}

// View is the surface the poller drives: the check button, the status table
// body and the footer. Implementations must treat every string as text, never
// as markup.
type View interface {
	ButtonLabel() string
	SetButtonLabel(label string)
	ButtonEnabled() bool
	SetButtonEnabled(enabled bool)

	// ReplaceRows drops all rows of the table body and inserts rows in order.
	ReplaceRows(rows []Row)
	// ShowError replaces the table body with a single full-width error row.
	ShowError(message string)

	// SetFooter replaces the footer text. An empty timestamp clears the
	// stored one.
	SetFooter(text, timestamp string)
	// FooterTimestamp returns the stored raw timestamp, if any.
	FooterTimestamp() (string, bool)

	// Alert shows a blocking notice to the user.
	Alert(message string)
}

// BadgeClass returns the style class of a status badge.
func BadgeClass(status string) string {
	if status == models.StatusOK {
		return BadgeOK
	}
	return BadgeError
}

// Rows converts services to table rows, one per entry, in order.
func Rows(services models.ServiceStatus) []Row {
	rows := make([]Row, 0, len(services))
	for _, s := range services {
		rows = append(rows, Row{
			Name:       s.Name,
			Status:     s.Status,
			Details:    s.Details,
			BadgeClass: BadgeClass(s.Status),
		})
	}
	return rows
}
