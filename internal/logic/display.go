package logic

import (
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"
)

const (
	// DisplayWidth is the number of columns per display line.
	DisplayWidth = 16
	// MessageDuration is how long a temporary message stays visible.
	MessageDuration = 3000 * time.Millisecond
	// RefreshInterval bounds how often the default view is redrawn.
	RefreshInterval = 500 * time.Millisecond
)

// FitLine truncates or pads s to exactly DisplayWidth columns.
func FitLine(s string) string {
	return runewidth.FillRight(runewidth.Truncate(s, DisplayWidth, ""), DisplayWidth)
}

// DefaultView builds the live status view from a snapshot.
func DefaultView(s Snapshot) (string, string) {
	return FitLine(fmt.Sprintf("G:%d L:%d", s.Gas, s.Light)),
		FitLine(fmt.Sprintf("Stm:%d Sl:%d", s.Steam, s.Soil))
}

// Display multiplexes temporary or held messages over the default view and
// is the only writer to the Screen. At most one physical write happens per
// tick.
type Display struct {
	out Screen

	line1   string
	line2   string
	showing bool
	held    bool
	expiry  time.Time

	dirty       bool
	lastRefresh time.Time
	writtenAt   time.Time
	written     bool
}

// NewDisplay creates a Display showing the default view.
func NewDisplay(out Screen) *Display {
	return &Display{out: out, dirty: true}
}

// ShowTemporary shows a message until now+d, then falls back to the
// default view.
func (d *Display) ShowTemporary(now time.Time, line1, line2 string, dur time.Duration) {
	d.line1, d.line2 = FitLine(line1), FitLine(line2)
	d.showing = true
	d.held = false
	d.expiry = now.Add(dur)
	d.dirty = true
}

// ShowHeld shows a message until it is replaced or cleared.
func (d *Display) ShowHeld(line1, line2 string) {
	d.line1, d.line2 = FitLine(line1), FitLine(line2)
	d.showing = true
	d.held = true
	d.dirty = true
}

// ClearToDefault drops any message so the default view shows on the next
// write.
func (d *Display) ClearToDefault() {
	d.showing = false
	d.held = false
	d.dirty = true
}

// Held reports whether a held message is showing.
func (d *Display) Held() bool {
	return d.showing && d.held
}

// Frame returns the lines that should be visible at now. It has no side
// effects.
func (d *Display) Frame(now time.Time, s Snapshot) (string, string) {
	if d.showing && (d.held || now.Before(d.expiry)) {
		return d.line1, d.line2
	}
	return DefaultView(s)
}

// RenderNow writes the current frame immediately, bypassing the refresh
// throttle.
func (d *Display) RenderNow(now time.Time, s Snapshot) error {
	d.dirty = false
	return d.write(now, s)
}

// RefreshIfDue expires temporary messages, marks the default view for its
// periodic redraw, and writes the frame if anything changed. A frame
// already written this tick is not written again; pending changes carry
// over to the next tick.
func (d *Display) RefreshIfDue(now time.Time, s Snapshot) error {
	if now.Sub(d.lastRefresh) >= RefreshInterval {
		d.lastRefresh = now
		d.dirty = true
	}
	if d.showing && !d.held && !now.Before(d.expiry) {
		d.showing = false
		d.dirty = true
	}

	if !d.dirty || (d.written && d.writtenAt.Equal(now)) {
		return nil
	}
	d.dirty = false
	return d.write(now, s)
}

func (d *Display) write(now time.Time, s Snapshot) error {
	l1, l2 := d.Frame(now, s)
	d.written = true
	d.writtenAt = now
	return d.out.Show(l1, l2)
}
