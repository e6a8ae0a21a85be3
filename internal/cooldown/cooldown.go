// Package cooldown throttles a manual action for a fixed period after the
// last time it completed.
//
// A Cooldown is a two-state machine (READY, COOLING_DOWN). Arming it with the
// instant of the last completed action either makes it READY right away or
// schedules exactly one wake-up at the moment the period expires.
package cooldown

import (
	"sync"
	"time"
)

// DefaultPeriod is the window during which the action stays throttled.
const DefaultPeriod = 30 * time.Second

type State uint8

const (
	StateReady State = iota
	StateCoolingDown
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "READY"
	case StateCoolingDown:
		return "COOLING_DOWN"
	default:
		return "UNKNOWN"
	}
}

// Remaining returns how long the action stays throttled at now, given the
// instant of the last action. Zero or negative means ready.
func Remaining(now, last time.Time, period time.Duration) time.Duration {
	return period - now.Sub(last)
}

// Cooldown owns the single pending wake-up of the state machine.
type Cooldown struct {
	clock   Clock
	period  time.Duration
	onReady func()

	mu    sync.Mutex
	state State
	timer Timer
	// gen invalidates wake-ups that were stopped too late to be prevented.
	gen uint64
}

// New returns a READY Cooldown. onReady is called from the timer goroutine
// when a scheduled wake-up moves the machine to READY; it is never called
// synchronously from Arm.
func New(clock Clock, period time.Duration, onReady func()) *Cooldown {
	if clock == nil {
		clock = NewSystemClock()
	}
	if period <= 0 {
		period = DefaultPeriod
	}
	if onReady == nil {
		onReady = func() {}
	}
	return &Cooldown{
		clock:   clock,
		period:  period,
		onReady: onReady,
		state:   StateReady,
	}
}

// Arm restarts the machine from the last action instant. ok is false when
// no previous action is known, which makes the machine READY. Any pending
// wake-up is cancelled first.
func (c *Cooldown) Arm(last time.Time, ok bool) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()

	if !ok {
		c.state = StateReady
		return c.state
	}

	remaining := Remaining(c.clock.Now(), last, c.period)
	if remaining <= 0 {
		c.state = StateReady
		return c.state
	}

	c.state = StateCoolingDown
	gen := c.gen
	c.timer = c.clock.AfterFunc(remaining, func() { c.fire(gen) })
	return c.state
}

// Cancel drops the pending wake-up, if any. The state is left unchanged.
func (c *Cooldown) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// State returns the current state.
func (c *Cooldown) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Pending reports whether a wake-up is scheduled.
func (c *Cooldown) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer != nil
}

// Period returns the configured throttle window.
func (c *Cooldown) Period() time.Duration {
	return c.period
}

func (c *Cooldown) stopLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
}

func (c *Cooldown) fire(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.state != StateCoolingDown {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.state = StateReady
	c.mu.Unlock()

	c.onReady()
}
