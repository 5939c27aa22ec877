package pwm

import "sync"

// FakeBuzzer is an in-memory logic.Sounder. It tracks the line state and
// flags any moment where the steady level and a tone overlap.
type FakeBuzzer struct {
	mu        sync.Mutex
	steady    bool
	hz        int
	tones     []int
	violation bool
}

// SetSteady sets the steady level.
func (f *FakeBuzzer) SetSteady(high bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.steady = high
	f.check()
	return nil
}

// Tone records a tone start.
func (f *FakeBuzzer) Tone(hz int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hz = hz
	f.tones = append(f.tones, hz)
	f.check()
	return nil
}

// Silence stops the tone.
func (f *FakeBuzzer) Silence() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hz = 0
	return nil
}

func (f *FakeBuzzer) check() {
	if f.steady && f.hz > 0 {
		f.violation = true
	}
}

// State returns the steady level and the current tone frequency (0 when
// silent).
func (f *FakeBuzzer) State() (steady bool, hz int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.steady, f.hz
}

// Tones returns every frequency started so far.
func (f *FakeBuzzer) Tones() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.tones...)
}

// Violation reports whether steady and tone were ever asserted together.
func (f *FakeBuzzer) Violation() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.violation
}
