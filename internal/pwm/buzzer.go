package pwm

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Buzzer drives one PWM pin as both the steady alarm line and the tone
// generator. It implements logic.Sounder.
type Buzzer struct {
	ch     *Channel
	steady bool
	hz     int
}

func NewBuzzer(ch *Channel) *Buzzer {
	return &Buzzer{ch: ch}
}

// SetSteady drives the line fully high or releases it.
func (b *Buzzer) SetSteady(high bool) error {
	if high {
		b.steady = true
		return b.ch.Set(gpio.DutyMax, 0)
	}
	if !b.steady {
		return nil
	}
	b.steady = false
	if b.hz == 0 {
		return b.ch.Disable()
	}
	return nil
}

// Tone starts a square wave at hz.
func (b *Buzzer) Tone(hz int) error {
	if hz <= 0 {
		return fmt.Errorf("buzzer: invalid frequency %d", hz)
	}
	b.hz = hz
	return b.ch.Set(gpio.DutyHalf, physic.Frequency(hz)*physic.Hertz)
}

// Silence stops the tone. A steady level, if set, is left alone.
func (b *Buzzer) Silence() error {
	b.hz = 0
	if b.steady {
		return nil
	}
	return b.ch.Disable()
}

func (b *Buzzer) Close() error {
	b.steady, b.hz = false, 0
	return b.ch.Close()
}
