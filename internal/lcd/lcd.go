// Package lcd writes the two 16-column lines to an HD44780 character
// display behind a PCF8574 I2C backpack, or to a terminal box when no
// display is fitted.
package lcd

import (
	"errors"
	"fmt"
	"time"
	"unicode"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

// PCF8574 pin mapping used by the common backpacks.
const (
	bitRS        = 0x01
	bitEnable    = 0x04
	bitBacklight = 0x08
)

// HD44780 instructions.
const (
	cmdClear       = 0x01
	cmdEntryMode   = 0x06 // increment, no shift
	cmdDisplayOn   = 0x0C // display on, cursor off, blink off
	cmdFunctionSet = 0x28 // 4-bit, 2 lines, 5x8
	cmdSetDDRAM    = 0x80
)

// Columns per line.
const Columns = 16

var lineAddr = [2]byte{0x00, 0x40}

// Bus is the write side of an I2C device already bound to the backpack
// address.
type Bus interface {
	Write(p []byte) (int, error)
	Close() error
}

// HD44780 drives the display. Lines identical to what is already on the
// glass are not rewritten.
type HD44780 struct {
	bus   Bus
	sleep func(time.Duration)
	shown [2]string
	valid [2]bool
}

// NewHD44780 initialises the controller in 4-bit mode and clears it.
func NewHD44780(bus Bus) (*HD44780, error) {
	return newHD44780(bus, time.Sleep)
}

func newHD44780(bus Bus, sleep func(time.Duration)) (*HD44780, error) {
	d := &HD44780{bus: bus, sleep: sleep}
	if err := d.init(); err != nil {
		return nil, fmt.Errorf("init lcd: %w", err)
	}
	return d, nil
}

func (d *HD44780) init() error {
	d.sleep(50 * time.Millisecond)

	// Reset into 8-bit mode three times, then switch to 4-bit.
	for _, wait := range []time.Duration{5 * time.Millisecond, 200 * time.Microsecond, 200 * time.Microsecond} {
		if err := d.writeNibble(0x30, 0); err != nil {
			return err
		}
		d.sleep(wait)
	}
	if err := d.writeNibble(0x20, 0); err != nil {
		return err
	}

	for _, c := range []byte{cmdFunctionSet, cmdDisplayOn, cmdEntryMode, cmdClear} {
		if err := d.command(c); err != nil {
			return err
		}
	}
	d.sleep(2 * time.Millisecond)
	return nil
}

// Show writes both lines. Each line must already be fitted to Columns; it
// is padded or cut here only as a guard.
func (d *HD44780) Show(line1, line2 string) error {
	var errs []error
	for i, s := range [2]string{line1, line2} {
		if d.valid[i] && d.shown[i] == s {
			continue
		}
		if err := d.writeLine(i, s); err != nil {
			d.valid[i] = false
			errs = append(errs, fmt.Errorf("write line %d: %w", i+1, err))
			continue
		}
		d.shown[i], d.valid[i] = s, true
	}
	return errors.Join(errs...)
}

func (d *HD44780) writeLine(row int, s string) error {
	if err := d.command(cmdSetDDRAM | lineAddr[row]); err != nil {
		return err
	}
	for _, c := range glyphs(s) {
		if err := d.send(c, bitRS); err != nil {
			return err
		}
	}
	return nil
}

// glyphs maps s to exactly Columns character codes, one cell per visible
// rune. Accents are stripped, zero-width runes are dropped and anything
// else outside printable ASCII shows as '?'.
func glyphs(s string) []byte {
	out := make([]byte, 0, Columns)
	for _, r := range norm.NFD.String(s) {
		if len(out) == Columns {
			break
		}
		if unicode.Is(unicode.Mn, r) || runewidth.RuneWidth(r) == 0 {
			continue
		}
		if r < 0x20 || r > 0x7e {
			r = '?'
		}
		out = append(out, byte(r))
	}
	for len(out) < Columns {
		out = append(out, ' ')
	}
	return out
}

func (d *HD44780) command(c byte) error {
	return d.send(c, 0)
}

func (d *HD44780) send(b, mode byte) error {
	if err := d.writeNibble(b&0xF0, mode); err != nil {
		return err
	}
	return d.writeNibble(b<<4, mode)
}

// writeNibble latches the high four bits of n with an enable pulse.
func (d *HD44780) writeNibble(n, mode byte) error {
	v := n&0xF0 | mode | bitBacklight
	_, err := d.bus.Write([]byte{v | bitEnable, v})
	return err
}

// Close clears the display, turns the backlight off and releases the bus.
func (d *HD44780) Close() error {
	err := d.command(cmdClear)
	if err == nil {
		_, err = d.bus.Write([]byte{0})
	}
	return errors.Join(err, d.bus.Close())
}
