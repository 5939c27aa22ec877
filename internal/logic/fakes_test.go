package logic

import "time"

// fakeSounder records buzzer output calls and flags any instant where the
// steady line and the tone generator are both asserted.
type fakeSounder struct {
	steady    bool
	hz        int
	calls     []string
	tones     []int
	violation bool
}

func (f *fakeSounder) SetSteady(high bool) error {
	f.steady = high
	if high {
		f.calls = append(f.calls, "steady-high")
	} else {
		f.calls = append(f.calls, "steady-low")
	}
	f.check()
	return nil
}

func (f *fakeSounder) Tone(hz int) error {
	f.hz = hz
	f.calls = append(f.calls, "tone")
	f.tones = append(f.tones, hz)
	f.check()
	return nil
}

func (f *fakeSounder) Silence() error {
	f.hz = 0
	f.calls = append(f.calls, "silence")
	return nil
}

func (f *fakeSounder) check() {
	if f.steady && f.hz > 0 {
		f.violation = true
	}
}

// fakeScreen records every physical write.
type fakeScreen struct {
	writes [][2]string
}

func (f *fakeScreen) Show(line1, line2 string) error {
	f.writes = append(f.writes, [2]string{line1, line2})
	return nil
}

func (f *fakeScreen) last() [2]string {
	if len(f.writes) == 0 {
		return [2]string{}
	}
	return f.writes[len(f.writes)-1]
}

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}
