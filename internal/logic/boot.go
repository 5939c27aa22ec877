package logic

import "time"

// bootStep is one timed bring-up step. apply edits the outputs held during
// boot; hold is how long to wait before the next step.
type bootStep struct {
	hold  time.Duration
	apply func(o *Outputs)
}

var bootSteps = []bootStep{
	// all outputs off
	{hold: 400 * time.Millisecond, apply: func(o *Outputs) { *o = Outputs{} }},
	// attach servos at the closed position
	{hold: 600 * time.Millisecond, apply: func(o *Outputs) {
		o.ServosAttached = true
		o.DoorAngle, o.WindowAngle = AngleClosed, AngleClosed
	}},
	// lamp test
	{hold: 300 * time.Millisecond, apply: func(o *Outputs) { o.RainLamp = true }},
	{hold: 300 * time.Millisecond, apply: func(o *Outputs) { o.RainLamp = false }},
	// confirm fan off
	{hold: 300 * time.Millisecond, apply: func(o *Outputs) { o.FanA, o.FanB = false, false }},
	// confirm relay off
	{hold: 300 * time.Millisecond, apply: func(o *Outputs) { o.Relay = false }},
}

// BootPhase is reported by Boot.Advance.
type BootPhase int

const (
	BootWaiting BootPhase = iota
	// BootReset is returned when step 0 runs; callers reset their state.
	BootReset
	BootStepped
	BootFinished
)

// Boot runs the staged bring-up without blocking. The control core does not
// run until Done reports true.
type Boot struct {
	step  int
	until time.Time
	begun bool
	done  bool
	out   Outputs
}

// Begun reports whether the first step has run.
func (b *Boot) Begun() bool {
	return b.begun
}

// Done reports whether boot has finished.
func (b *Boot) Done() bool {
	return b.done
}

// Step returns the index of the next step to run.
func (b *Boot) Step() int {
	return b.step
}

// Outputs returns the actuator state held during boot.
func (b *Boot) Outputs() Outputs {
	return b.out
}

// Advance runs the next step once its deadline has passed.
func (b *Boot) Advance(now time.Time) BootPhase {
	if b.done {
		return BootWaiting
	}
	if b.begun && now.Before(b.until) {
		return BootWaiting
	}
	b.begun = true

	if b.step >= len(bootSteps) {
		b.done = true
		return BootFinished
	}

	s := bootSteps[b.step]
	s.apply(&b.out)
	b.until = now.Add(s.hold)
	b.step++
	if b.step == 1 {
		return BootReset
	}
	return BootStepped
}

// Skip marks boot finished with servos attached at the closed position.
func (b *Boot) Skip() {
	b.begun = true
	b.done = true
	b.step = len(bootSteps)
	b.out = Outputs{ServosAttached: true}
}
