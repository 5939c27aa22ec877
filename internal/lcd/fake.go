package lcd

import "sync"

// FakeScreen keeps the last frame and counts writes. Safe for concurrent
// use.
type FakeScreen struct {
	mu     sync.Mutex
	lines  [2]string
	writes int
}

// Show records the frame.
func (f *FakeScreen) Show(line1, line2 string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines = [2]string{line1, line2}
	f.writes++
	return nil
}

// Lines returns the last frame.
func (f *FakeScreen) Lines() (string, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lines[0], f.lines[1]
}

// Writes returns the number of frames written.
func (f *FakeScreen) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}
