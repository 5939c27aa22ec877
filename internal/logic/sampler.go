package logic

import "time"

// latch tracks the debounced level of one digital input.
// It fires once on the rising edge and re-arms on the falling edge.
type latch struct {
	// Stable is the current debounced level.
	Stable bool
	// Pending is true while a differing level is being observed.
	Pending bool
	// PendingSince is when the differing level was first observed.
	PendingSince time.Time
}

// update feeds a raw level and reports whether the stable level changed.
func (l *latch) update(raw bool, now time.Time, window time.Duration) bool {
	if raw == l.Stable {
		l.Pending = false
		return false
	}

	if !l.Pending {
		l.Pending = true
		l.PendingSince = now
	}

	if now.Sub(l.PendingSince) >= window {
		l.Stable = raw
		l.Pending = false
		return true
	}
	return false
}

// Sampler turns raw readings into Snapshots, debouncing the buttons and
// converting them into rising edges.
type Sampler struct {
	debounce time.Duration
	button1  latch
	button2  latch
}

// NewSampler creates a Sampler. A zero debounce registers a press on the
// first tick it is seen.
func NewSampler(debounce time.Duration) *Sampler {
	return &Sampler{debounce: debounce}
}

// Sample produces the snapshot for this tick.
func (s *Sampler) Sample(now time.Time, r Reading) Snapshot {
	b1 := s.button1.update(r.Button1, now, s.debounce) && s.button1.Stable
	b2 := s.button2.update(r.Button2, now, s.debounce) && s.button2.Stable

	return Snapshot{
		Gas:            r.Gas,
		Light:          r.Light,
		Soil:           r.Soil,
		Steam:          r.Steam,
		Motion:         r.Motion,
		Button1Pressed: b1,
		Button2Pressed: b2,
	}
}

// Reset returns both button latches to released.
func (s *Sampler) Reset() {
	s.button1 = latch{}
	s.button2 = latch{}
}
