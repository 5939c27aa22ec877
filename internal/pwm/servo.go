package pwm

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/sweeney/house-guard/internal/logic"
)

// Hobby servo timing: 50 Hz frame, 0.5..2.5 ms pulse for 0..180 degrees.
const (
	servoFreq     = 50 * physic.Hertz
	servoPeriod   = 20 * time.Millisecond
	servoMinPulse = 500 * time.Microsecond
	servoMaxPulse = 2500 * time.Microsecond
)

// PulseWidth returns the pulse for angle degrees, clamped to 0..180.
func PulseWidth(angle int) time.Duration {
	angle = max(0, min(180, angle))
	return servoMinPulse + (servoMaxPulse-servoMinPulse)*time.Duration(angle)/180
}

// Servo is one positional servo.
type Servo struct {
	ch *Channel
}

func NewServo(ch *Channel) *Servo {
	return &Servo{ch: ch}
}

// SetAngle moves the servo and keeps it powered.
func (s *Servo) SetAngle(angle int) error {
	return s.ch.Set(DutyOf(PulseWidth(angle), servoPeriod), servoFreq)
}

// Detach stops the pulse train; the servo goes limp.
func (s *Servo) Detach() error {
	return s.ch.Disable()
}

func (s *Servo) Close() error {
	return s.ch.Close()
}

// Servos drives the door and window servos from controller outputs.
type Servos struct {
	Door   *Servo
	Window *Servo
}

// Write applies the servo fields of o.
func (s *Servos) Write(o logic.Outputs) error {
	if !o.ServosAttached {
		return errors.Join(s.Door.Detach(), s.Window.Detach())
	}
	var errs []error
	if err := s.Door.SetAngle(o.DoorAngle); err != nil {
		errs = append(errs, fmt.Errorf("door servo: %w", err))
	}
	if err := s.Window.SetAngle(o.WindowAngle); err != nil {
		errs = append(errs, fmt.Errorf("window servo: %w", err))
	}
	return errors.Join(errs...)
}

// Close drives both pins low.
func (s *Servos) Close() error {
	return errors.Join(s.Door.Close(), s.Window.Close())
}
