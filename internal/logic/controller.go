package logic

import (
	"errors"
	"time"
)

// Boot display text.
const (
	welcomeLine1 = "Welcome! Turning"
	welcomeLine2 = "the device on..."
	readyLine1   = "All ready"
)

// Options tunes a Controller.
type Options struct {
	// Debounce is the button debounce window.
	Debounce time.Duration
	// NewSessionID generates gas session IDs; nil uses random UUIDs.
	NewSessionID func() string
	// SkipBoot starts the controller with boot already finished.
	SkipBoot bool
}

// Result is what one tick produced.
type Result struct {
	Snapshot Snapshot
	Outputs  Outputs
	Events   []Event
	Booted   bool
}

// Controller runs one tick at a time: sample, gas sequencer, peripheral
// reactors, buzzer, display, projection. It is not safe for concurrent use;
// a single goroutine owns it and therefore all outputs.
type Controller struct {
	sampler  *Sampler
	boot     Boot
	gas      *GasSequencer
	reactors Reactors
	buzzer   *Buzzer
	display  *Display

	intent   Intent
	last     Snapshot
	outputs  Outputs
	counts   EventCounts
	start    time.Time
	lastBeat time.Time
}

// NewController creates a controller that owns the given outputs.
// startTime is used for heartbeat uptime.
func NewController(sounder Sounder, screen Screen, startTime time.Time, opts Options) *Controller {
	c := &Controller{
		sampler:  NewSampler(opts.Debounce),
		gas:      NewGasSequencer(opts.NewSessionID),
		buzzer:   NewBuzzer(sounder),
		display:  NewDisplay(screen),
		start:    startTime,
		lastBeat: startTime,
	}
	if opts.SkipBoot {
		c.boot.Skip()
	}
	return c
}

// Tick runs one control cycle. cmds are the remote commands completed since
// the previous tick. Output errors are joined and returned; the state
// machine has already advanced, so callers log and carry on.
func (c *Controller) Tick(now time.Time, r Reading, cmds []Command) (Result, error) {
	if !c.boot.Done() {
		return c.bootTick(now, r)
	}

	snap := c.sampler.Sample(now, r)
	c.last = snap
	before := c.intent
	var errs []error

	gas := c.gas.Update(now, snap, &c.intent)
	if gas.Claimed {
		c.buzzer.SetMode(gas.Buzzer)
	} else {
		c.buzzer.SetMode(BuzzerOff)
	}
	errs = append(errs, c.request(now, snap, gas.Display))

	peri := c.reactors.Update(now, snap, cmds, &c.intent, gas.Claimed)
	errs = append(errs, c.request(now, snap, peri.Display))
	if peri.Chime != nil {
		c.buzzer.Play(peri.Chime)
	}

	errs = append(errs,
		c.buzzer.Apply(now),
		c.display.RefreshIfDue(now, snap),
	)

	events := append(gas.Events, peri.Events...)
	events = append(events, intentEvents(now, before, c.intent)...)
	for _, e := range events {
		c.counts.add(e.Type)
	}

	c.outputs = project(snap, c.intent)
	return Result{Snapshot: snap, Outputs: c.outputs, Events: events, Booted: true}, errors.Join(errs...)
}

// Hold runs the timed outputs for a tick that has no sensor reading. The
// buzzer cadence and display expiry keep advancing against the last
// snapshot; intent, the gas sequencer and the latches are left untouched.
func (c *Controller) Hold(now time.Time) (Result, error) {
	if !c.boot.Begun() {
		return Result{Snapshot: c.last, Outputs: c.outputs}, nil
	}
	err := errors.Join(
		c.buzzer.Apply(now),
		c.display.RefreshIfDue(now, c.last),
	)
	return Result{Snapshot: c.last, Outputs: c.outputs, Booted: c.boot.Done()}, err
}

func (c *Controller) bootTick(now time.Time, r Reading) (Result, error) {
	snap := Snapshot{Gas: r.Gas, Light: r.Light, Soil: r.Soil, Steam: r.Steam, Motion: r.Motion}
	c.last = snap
	var errs []error

	if !c.boot.Begun() {
		c.display.ShowHeld(welcomeLine1, welcomeLine2)
		errs = append(errs, c.display.RenderNow(now, snap))
		c.buzzer.Play(StartupMelody)
	}

	switch c.boot.Advance(now) {
	case BootReset:
		c.intent = Intent{}
		c.gas.Reset()
		c.reactors.Reset()
		c.sampler.Reset()
		c.buzzer.SetMode(BuzzerOff)
	case BootFinished:
		c.display.ShowTemporary(now, readyLine1, "", MessageDuration)
		errs = append(errs, c.display.RenderNow(now, snap))
	}

	errs = append(errs,
		c.buzzer.Apply(now),
		c.display.RefreshIfDue(now, snap),
	)

	c.outputs = c.boot.Outputs()
	return Result{Snapshot: snap, Outputs: c.outputs, Booted: c.boot.Done()}, errors.Join(errs...)
}

// request hands a display request to the Display arbiter.
func (c *Controller) request(now time.Time, snap Snapshot, req DisplayRequest) error {
	switch req.Action {
	case DisplayNone:
		return nil
	case DisplayTemporary:
		c.display.ShowTemporary(now, req.Line1, req.Line2, req.Duration)
	case DisplayHeld:
		c.display.ShowHeld(req.Line1, req.Line2)
	case DisplayDefault:
		c.display.ClearToDefault()
	}
	if req.Force {
		return c.display.RenderNow(now, snap)
	}
	return nil
}

// project maps the final intent and snapshot to physical outputs.
func project(snap Snapshot, intent Intent) Outputs {
	angle := AngleClosed
	if intent.WindowOpen {
		angle = AngleOpen
	}
	return Outputs{
		MotionLamp:     snap.Motion,
		RainLamp:       snap.Wet(),
		FanA:           intent.FanOn,
		FanB:           false,
		Relay:          false,
		ServosAttached: true,
		DoorAngle:      angle,
		WindowAngle:    angle,
	}
}

func intentEvents(now time.Time, before, after Intent) []Event {
	var events []Event
	if before.FanOn != after.FanOn {
		t := EventFanOff
		if after.FanOn {
			t = EventFanOn
		}
		events = append(events, Event{Timestamp: now, Type: t, Intent: after})
	}
	if before.WindowOpen != after.WindowOpen {
		t := EventWindowClose
		if after.WindowOpen {
			t = EventWindowOpen
		}
		events = append(events, Event{Timestamp: now, Type: t, Intent: after})
	}
	return events
}

// Booted reports whether boot has finished.
func (c *Controller) Booted() bool {
	return c.boot.Done()
}

// Intent returns the current actuator intent.
func (c *Controller) Intent() Intent {
	return c.intent
}

// Session returns the current gas session.
func (c *Controller) Session() GasSession {
	return c.gas.Session()
}

// BuzzerMode returns the buzzer's selected mode.
func (c *Controller) BuzzerMode() BuzzerMode {
	return c.buzzer.Mode()
}

// ToneOn reports whether the tone generator is currently driven.
func (c *Controller) ToneOn() bool {
	return c.buzzer.ToneOn()
}

// DisplayLines returns the frame visible at now.
func (c *Controller) DisplayLines(now time.Time) (string, string) {
	return c.display.Frame(now, c.last)
}

// LastSnapshot returns the snapshot from the most recent tick.
func (c *Controller) LastSnapshot() Snapshot {
	return c.last
}

// Outputs returns the projection from the most recent tick.
func (c *Controller) Outputs() Outputs {
	return c.outputs
}

// EventCountsSnapshot returns a copy of the event counters.
func (c *Controller) EventCountsSnapshot() EventCounts {
	return c.counts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil before boot finishes, if the
// interval has not elapsed, or if interval is <= 0 (disabled).
func (c *Controller) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}
	if !c.boot.Done() {
		return nil
	}
	if now.Sub(c.lastBeat) < interval {
		return nil
	}
	c.lastBeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(c.start),
		Counts:    c.counts,
	}
}
