package adc

import "sync"

// FakeReader returns whatever levels were last set. Safe for concurrent use.
type FakeReader struct {
	mu     sync.Mutex
	levels Levels
	err    error
}

// Set replaces the levels returned by Read.
func (f *FakeReader) Set(l Levels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.levels = l
}

// SetError makes Read fail with err until cleared with nil.
func (f *FakeReader) SetError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// Read returns the current levels.
func (f *FakeReader) Read() (Levels, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return Levels{}, f.err
	}
	return f.levels, nil
}
