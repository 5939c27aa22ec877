// Package gpio drives the house's digital lines through the Linux GPIO
// character device: the motion sensor and two buttons as inputs, the lamps,
// fan driver and relay as outputs. Fakes allow testing without hardware.
package gpio

import "github.com/sweeney/house-guard/internal/logic"

// Inputs is one reading of the digital inputs in logical form.
// Buttons are true while pressed.
type Inputs struct {
	Motion  bool
	Button1 bool
	Button2 bool
}

// Reader reads the digital inputs.
type Reader interface {
	Read() (Inputs, error)
	Close() error
}

// Writer drives the digital outputs.
type Writer interface {
	// Write drives MotionLamp, RainLamp, FanA, FanB and Relay from o.
	// The remaining fields belong to the PWM outputs and are ignored.
	Write(o logic.Outputs) error
	Close() error
}

// InputPins are BCM line offsets of the inputs.
type InputPins struct {
	Motion  int `yaml:"motion"`
	Button1 int `yaml:"button1"`
	Button2 int `yaml:"button2"`
}

// OutputPins are BCM line offsets of the outputs.
type OutputPins struct {
	MotionLamp int `yaml:"motion_lamp"`
	RainLamp   int `yaml:"rain_lamp"`
	FanA       int `yaml:"fan_a"`
	FanB       int `yaml:"fan_b"`
	Relay      int `yaml:"relay"`
}

// Default pin assignment (BCM numbering)
var (
	DefaultInputPins  = InputPins{Motion: 17, Button1: 5, Button2: 6}
	DefaultOutputPins = OutputPins{MotionLamp: 22, RainLamp: 23, FanA: 24, FanB: 25, Relay: 16}
)

// levels lists the output levels of o in a fixed order matching the
// line order used by RealWriter.
func levels(o logic.Outputs) [5]bool {
	return [5]bool{o.MotionLamp, o.RainLamp, o.FanA, o.FanB, o.Relay}
}

var outputNames = [5]string{"motion lamp", "rain lamp", "fan A", "fan B", "relay"}
