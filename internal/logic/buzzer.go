package logic

import (
	"errors"
	"time"
)

// SirenHz is the pitch of the alarm-clock style beep.
const SirenHz = 1800

// Step is one element of a tone sequence. Hz 0 is silence.
type Step struct {
	Hz       int
	Duration time.Duration
}

// Melody is a finite tone sequence played without blocking the tick loop.
type Melody []Step

// SirenPattern is the "beep-beep ... pause" cadence, repeated while the
// buzzer is in BuzzerSiren mode.
var SirenPattern = Melody{
	{Hz: SirenHz, Duration: 120 * time.Millisecond},
	{Hz: 0, Duration: 120 * time.Millisecond},
	{Hz: SirenHz, Duration: 120 * time.Millisecond},
	{Hz: 0, Duration: 350 * time.Millisecond},
}

// StartupMelody plays during boot: G4 C5 E5 G5 E5.
var StartupMelody = Melody{
	{Hz: 392, Duration: 180 * time.Millisecond}, {Duration: 40 * time.Millisecond},
	{Hz: 523, Duration: 180 * time.Millisecond}, {Duration: 40 * time.Millisecond},
	{Hz: 659, Duration: 220 * time.Millisecond}, {Duration: 40 * time.Millisecond},
	{Hz: 784, Duration: 300 * time.Millisecond}, {Duration: 40 * time.Millisecond},
	{Hz: 659, Duration: 260 * time.Millisecond}, {Duration: 40 * time.Millisecond},
}

// RainMelody plays once when water is first detected: C4 D4 E4 F4.
var RainMelody = Melody{
	{Hz: 262, Duration: 200 * time.Millisecond}, {Duration: 50 * time.Millisecond},
	{Hz: 294, Duration: 200 * time.Millisecond}, {Duration: 50 * time.Millisecond},
	{Hz: 330, Duration: 200 * time.Millisecond}, {Duration: 50 * time.Millisecond},
	{Hz: 349, Duration: 200 * time.Millisecond}, {Duration: 50 * time.Millisecond},
}

// cadence steps through a Melody, advancing one step per elapsed deadline.
type cadence struct {
	steps  Melody
	loop   bool
	phase  int
	next   time.Time
	armed  bool
	toneOn bool
	done   bool
}

func newCadence(steps Melody, loop bool) cadence {
	return cadence{steps: steps, loop: loop, done: len(steps) == 0}
}

// advance emits the next step if its deadline has passed. The first call
// after construction toggles immediately.
func (c *cadence) advance(now time.Time, out Sounder) error {
	if c.done {
		return nil
	}
	if c.armed && now.Before(c.next) {
		return nil
	}

	if c.phase >= len(c.steps) {
		c.done = true
		c.toneOn = false
		return out.Silence()
	}

	step := c.steps[c.phase]
	var err error
	if step.Hz > 0 {
		err = out.Tone(step.Hz)
		c.toneOn = true
	} else {
		err = out.Silence()
		c.toneOn = false
	}

	c.next = now.Add(step.Duration)
	c.armed = true
	c.phase++
	if c.loop && c.phase >= len(c.steps) {
		c.phase = 0
	}
	return err
}

// Buzzer is the single owner of the acoustic output. Exactly one mode is
// active at a time; in BuzzerOff a finite melody may play.
type Buzzer struct {
	out     Sounder
	mode    BuzzerMode
	applied BuzzerMode
	siren   cadence
	melody  cadence
	playing bool
}

// NewBuzzer creates a Buzzer in BuzzerOff.
func NewBuzzer(out Sounder) *Buzzer {
	return &Buzzer{out: out, mode: BuzzerOff}
}

// SetMode selects the mode rendered by the next Apply.
func (b *Buzzer) SetMode(m BuzzerMode) {
	b.mode = m
}

// Mode returns the selected mode.
func (b *Buzzer) Mode() BuzzerMode {
	return b.mode
}

// Play starts a melody. It is refused (false) unless the buzzer is off, so
// chimes never sound over an alarm.
func (b *Buzzer) Play(m Melody) bool {
	if b.mode != BuzzerOff {
		return false
	}
	b.melody = newCadence(m, false)
	b.playing = !b.melody.done
	return b.playing
}

// Playing reports whether a melody is in progress.
func (b *Buzzer) Playing() bool {
	return b.playing
}

// Phase returns the siren cadence phase (0..3). It is 0 outside BuzzerSiren.
func (b *Buzzer) Phase() int {
	return b.siren.phase
}

// ToneOn reports whether the tone generator was last driven on.
func (b *Buzzer) ToneOn() bool {
	switch {
	case b.applied == BuzzerSiren:
		return b.siren.toneOn
	case b.playing:
		return b.melody.toneOn
	}
	return false
}

// Apply renders the current mode. Switching modes always silences the
// previous output before asserting the new one.
func (b *Buzzer) Apply(now time.Time) error {
	if b.mode != BuzzerOff && b.playing {
		b.playing = false
		b.melody = cadence{}
	}
	if b.mode != BuzzerSiren && b.applied == BuzzerSiren {
		b.siren = cadence{}
	}

	var errs []error
	switch b.mode {
	case BuzzerSolid:
		errs = append(errs, b.out.Silence(), b.out.SetSteady(true))
	case BuzzerSiren:
		if b.applied != BuzzerSiren {
			b.siren = newCadence(SirenPattern, true)
		}
		errs = append(errs, b.out.SetSteady(false), b.siren.advance(now, b.out))
	default:
		errs = append(errs, b.out.SetSteady(false))
		if b.playing {
			errs = append(errs, b.melody.advance(now, b.out))
			if b.melody.done {
				b.playing = false
			}
		} else {
			errs = append(errs, b.out.Silence())
		}
	}

	b.applied = b.mode
	return errors.Join(errs...)
}
