// Package pwm drives the buzzer and the two servos from PWM-capable GPIO
// pins through periph.io.
package pwm

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// Pin is the part of gpio.PinOut the drivers use.
type Pin interface {
	Out(l gpio.Level) error
	PWM(duty gpio.Duty, f physic.Frequency) error
}

// OpenPin loads the host drivers, looks up a pin by name ("GPIO18") and
// drives it low.
func OpenPin(name string) (Pin, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("pwm pin %q not found", name)
	}
	if err := p.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("reset %s: %w", name, err)
	}
	return p, nil
}

// DutyOf converts a pulse width within period to a periph duty cycle.
func DutyOf(pulse, period time.Duration) gpio.Duty {
	pulse = max(0, min(period, pulse))
	return gpio.Duty(int64(gpio.DutyMax) * int64(pulse) / int64(period))
}

// Channel is one PWM pin. The last waveform is cached so unchanged values
// are not rewritten.
type Channel struct {
	pin  Pin
	name string

	duty    gpio.Duty
	freq    physic.Frequency
	enabled bool
}

func NewChannel(name string, pin Pin) *Channel {
	return &Channel{pin: pin, name: name}
}

// Set runs a waveform. Full duty holds the pin high and zero duty stops it.
func (c *Channel) Set(duty gpio.Duty, f physic.Frequency) error {
	if duty <= 0 {
		return c.Disable()
	}
	if c.enabled && duty == c.duty && f == c.freq {
		return nil
	}
	var err error
	if duty >= gpio.DutyMax {
		err = c.pin.Out(gpio.High)
	} else {
		err = c.pin.PWM(duty, f)
	}
	if err != nil {
		c.enabled = false
		return fmt.Errorf("set %s: %w", c.name, err)
	}
	c.duty, c.freq, c.enabled = duty, f, true
	return nil
}

// Disable drives the pin low.
func (c *Channel) Disable() error {
	if !c.enabled {
		return nil
	}
	if err := c.pin.Out(gpio.Low); err != nil {
		return fmt.Errorf("stop %s: %w", c.name, err)
	}
	c.enabled = false
	return nil
}

func (c *Channel) Enabled() bool {
	return c.enabled
}

// Close drives the pin low whatever the cached state.
func (c *Channel) Close() error {
	c.enabled = true
	return c.Disable()
}
