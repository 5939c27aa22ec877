package gpio

import (
	"errors"
	"sync"

	"github.com/sweeney/house-guard/internal/logic"
)

// FakeReader is a test double that returns scripted inputs.
type FakeReader struct {
	// Samples contains the scripted inputs. Each call to Read consumes the
	// next one.
	Samples []Inputs

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []Inputs) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeReader) Read() (Inputs, error) {
	if f.ReadError != nil {
		return Inputs{}, f.ReadError
	}

	if len(f.Samples) == 0 {
		return Inputs{}, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Closed = false
}

// FakeWriter records every output write. It is safe for concurrent use so
// tests can inspect it while a loop runs.
type FakeWriter struct {
	mu     sync.Mutex
	writes []logic.Outputs
	closed bool

	// FanConflict is set if a write ever drove fan A and fan B together.
	FanConflict bool

	// WriteError, if set, will be returned by Write()
	WriteError error
}

// Write records o.
func (f *FakeWriter) Write(o logic.Outputs) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.WriteError != nil {
		return f.WriteError
	}
	l := levels(o)
	if l[2] && l[3] {
		f.FanConflict = true
	}
	f.writes = append(f.writes, o)
	return nil
}

// Close marks the writer as closed.
func (f *FakeWriter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Writes returns a copy of all recorded writes.
func (f *FakeWriter) Writes() []logic.Outputs {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]logic.Outputs, len(f.writes))
	copy(out, f.writes)
	return out
}

// Last returns the most recent write.
func (f *FakeWriter) Last() (logic.Outputs, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.writes) == 0 {
		return logic.Outputs{}, false
	}
	return f.writes[len(f.writes)-1], true
}

// Closed reports whether Close was called.
func (f *FakeWriter) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
