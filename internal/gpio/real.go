//go:build linux

package gpio

import (
	"errors"
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/house-guard/internal/logic"
)

// RealReader reads the inputs from the GPIO character device.
type RealReader struct {
	chip    *gpiocdev.Chip
	motion  *gpiocdev.Line
	button1 *gpiocdev.Line
	button2 *gpiocdev.Line
}

// NewRealReader requests the input lines on the named chip.
func NewRealReader(chipName string, pins InputPins) (*RealReader, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}
	r := &RealReader{chip: chip}

	// The PIR module drives its output actively.
	r.motion, err = chip.RequestLine(pins.Motion, gpiocdev.AsInput, gpiocdev.WithPullDown)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("request motion pin %d: %w", pins.Motion, err)
	}

	// Buttons short to ground; active-low makes a press read as 1.
	r.button1, err = chip.RequestLine(pins.Button1, gpiocdev.AsInput, gpiocdev.WithPullUp, gpiocdev.AsActiveLow)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("request button1 pin %d: %w", pins.Button1, err)
	}

	r.button2, err = chip.RequestLine(pins.Button2, gpiocdev.AsInput, gpiocdev.WithPullUp, gpiocdev.AsActiveLow)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("request button2 pin %d: %w", pins.Button2, err)
	}

	return r, nil
}

// Read returns the logical input levels.
func (r *RealReader) Read() (Inputs, error) {
	var in Inputs
	for _, l := range []struct {
		name string
		line *gpiocdev.Line
		dst  *bool
	}{
		{"motion", r.motion, &in.Motion},
		{"button1", r.button1, &in.Button1},
		{"button2", r.button2, &in.Button2},
	} {
		v, err := l.line.Value()
		if err != nil {
			return Inputs{}, fmt.Errorf("read %s pin: %w", l.name, err)
		}
		*l.dst = v == 1
	}
	return in, nil
}

// Close releases the input lines and the chip.
func (r *RealReader) Close() error {
	var errs []error
	for _, l := range []*gpiocdev.Line{r.motion, r.button1, r.button2} {
		if l == nil {
			continue
		}
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	return errors.Join(errs...)
}

// RealWriter drives the output lines. Levels are cached and only changed
// lines are written; lines going low are written before lines going high so
// the fan driver never sees INA and INB high together.
type RealWriter struct {
	chip  *gpiocdev.Chip
	lines [5]*gpiocdev.Line
	last  [5]bool
}

// NewRealWriter requests the output lines on the named chip, all driven low.
func NewRealWriter(chipName string, pins OutputPins) (*RealWriter, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}
	w := &RealWriter{chip: chip}

	offsets := [5]int{pins.MotionLamp, pins.RainLamp, pins.FanA, pins.FanB, pins.Relay}
	for i, off := range offsets {
		w.lines[i], err = chip.RequestLine(off, gpiocdev.AsOutput(0))
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", outputNames[i], off, err)
		}
	}
	return w, nil
}

// Write drives the outputs from o.
func (w *RealWriter) Write(o logic.Outputs) error {
	if o.FanA && o.FanB {
		return errors.New("gpio: refusing to drive fan A and fan B together")
	}
	next := levels(o)

	var errs []error
	for _, high := range []bool{false, true} {
		for i, l := range w.lines {
			if next[i] != high || w.last[i] == high {
				continue
			}
			if err := l.SetValue(btoi(high)); err != nil {
				errs = append(errs, fmt.Errorf("write %s: %w", outputNames[i], err))
				continue
			}
			w.last[i] = high
		}
	}
	return errors.Join(errs...)
}

// Close drives every output low and releases the lines. They are left as
// inputs with pull-down to match the Pi's boot defaults.
func (w *RealWriter) Close() error {
	var errs []error
	for i, l := range w.lines {
		if l == nil {
			continue
		}
		if err := l.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("reset %s: %w", outputNames[i], err))
		}
		if err := l.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s: %w", outputNames[i], err))
		}
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", outputNames[i], err))
		}
	}
	if w.chip != nil {
		if err := w.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	return errors.Join(errs...)
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
