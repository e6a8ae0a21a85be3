// Package poller implements the status board widget: a "check now" button
// that fetches service health, renders it into a table and throttles itself
// with a cool-down.
//
// The widget runs in one of two profiles. The default profile checks the
// HTTP status strictly, renders failures as an error row and keeps the button
// disabled for the cool-down period after each successful check. The legacy
// profile accepts any HTTP status whose body decodes, reports failures with
// an alert and re-enables the button as soon as a check settles.
package poller

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"csb/statusboard/internal/cooldown"
	"csb/statusboard/internal/logging"
	"csb/statusboard/internal/models"
)

const DefaultEndpoint = "/api/status"

type Options struct {
	// Endpoint is the absolute URL of the status API.
	Endpoint string

	// WithCooldown keeps the button disabled for CooldownPeriod after each
	// successful check.
	WithCooldown bool

	// StrictHTTPCheck treats any non-2xx response as a failure.
	StrictHTTPCheck bool

	CooldownPeriod time.Duration
	Clock          cooldown.Clock
	Client         *http.Client
	Logger         *zap.SugaredLogger
}

// DefaultOptions returns the cool-down profile.
func DefaultOptions(endpoint string) Options {
	return Options{
		Endpoint:        endpoint,
		WithCooldown:    true,
		StrictHTTPCheck: true,
		CooldownPeriod:  cooldown.DefaultPeriod,
	}
}

// LegacyOptions returns the profile without cool-down or status checking.
func LegacyOptions(endpoint string) Options {
	return Options{Endpoint: endpoint}
}

type StatusPoller struct {
	opts     Options
	view     View
	client   *http.Client
	logger   *zap.SugaredLogger
	cooldown *cooldown.Cooldown

	// mu serializes every access to view.
	mu       sync.Mutex
	inFlight bool
}

func New(view View, opts Options) *StatusPoller {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.CooldownPeriod <= 0 {
		opts.CooldownPeriod = cooldown.DefaultPeriod
	}
	if opts.Clock == nil {
		opts.Clock = cooldown.NewSystemClock()
	}

	p := &StatusPoller{
		opts:   opts,
		view:   view,
		client: opts.Client,
		logger: opts.Logger,
	}
	if p.client == nil {
		p.client = &http.Client{}
	}
	if p.logger == nil {
		p.logger = logging.GetLogger()
	}
	p.cooldown = cooldown.New(opts.Clock, opts.CooldownPeriod, p.onCooldownExpired)
	return p
}

// Start initializes the button when the page is ready.
func (p *StatusPoller) Start() {
	p.ManageButtonState()
}

// Close cancels the pending cool-down wake-up.
func (p *StatusPoller) Close() {
	p.cooldown.Cancel()
}

// Click is the button handler. It does nothing while the button is disabled.
func (p *StatusPoller) Click(ctx context.Context) error {
	return p.check(ctx, true)
}

// TriggerCheck runs one status check regardless of the button state.
func (p *StatusPoller) TriggerCheck(ctx context.Context) error {
	return p.check(ctx, false)
}

// Render replaces the table body with one row per service.
func (p *StatusPoller) Render(services models.ServiceStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.view.ReplaceRows(Rows(services))
}

// ManageButtonState disables the button and re-enables it once the
// cool-down measured from the footer timestamp has expired. Without a
// cool-down the button is enabled right away.
func (p *StatusPoller) ManageButtonState() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.manageButtonStateLocked()
}

// CooldownState returns the state of the cool-down machine.
func (p *StatusPoller) CooldownState() cooldown.State {
	return p.cooldown.State()
}

func (p *StatusPoller) check(ctx context.Context, fromClick bool) error {
	p.mu.Lock()
	if fromClick && !p.view.ButtonEnabled() {
		p.mu.Unlock()
		return ErrButtonDisabled
	}
	if p.inFlight {
		p.mu.Unlock()
		return ErrCheckInFlight
	}
	p.inFlight = true
	p.cooldown.Cancel()
	originalLabel := p.view.ButtonLabel()
	p.view.SetButtonEnabled(false)
	p.view.SetButtonLabel(WorkingLabel)
	p.mu.Unlock()

	resp, err := p.fetch(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	defer func() {
		p.inFlight = false
	}()

	if err != nil {
		p.logger.Errorw("Error fetching status",
			"endpoint", p.opts.Endpoint,
			"error", err,
		)
		if p.opts.WithCooldown {
			p.view.ShowError(ErrorRowMessage)
		} else {
			p.view.Alert(AlertMessage)
		}
		p.view.SetButtonLabel(originalLabel)
		p.view.SetButtonEnabled(true)
		return err
	}

	p.view.ReplaceRows(Rows(resp.Services))
	// Only the cool-down reads the timestamp back.
	timestamp := ""
	if p.opts.WithCooldown {
		timestamp = resp.Timestamp
	}
	p.view.SetFooter(FooterPrefix+resp.LastChecked, timestamp)
	p.view.SetButtonLabel(originalLabel)
	p.manageButtonStateLocked()

	p.logger.Debugw("Status check completed",
		"services", len(resp.Services),
		"last_checked", resp.LastChecked,
	)
	return nil
}

func (p *StatusPoller) manageButtonStateLocked() {
	if !p.opts.WithCooldown {
		p.view.SetButtonEnabled(true)
		return
	}

	p.view.SetButtonEnabled(false)

	var last time.Time
	raw, ok := p.view.FooterTimestamp()
	if ok {
		t, err := models.ParseTimestamp(raw)
		if err != nil {
			p.logger.Warnw("Ignoring unparseable footer timestamp",
				"timestamp", raw,
				"error", err,
			)
			ok = false
		} else {
			last = t
		}
	}

	if p.cooldown.Arm(last, ok) == cooldown.StateReady {
		p.view.SetButtonEnabled(true)
	}
}

func (p *StatusPoller) onCooldownExpired() {
	p.mu.Lock()
	defer p.mu.Unlock()

	// A check started after the wake-up was scheduled owns the button now,
	// and a check that already finished has re-armed the cool-down.
	if p.inFlight || p.cooldown.State() != cooldown.StateReady {
		return
	}
	p.view.SetButtonEnabled(true)
}
