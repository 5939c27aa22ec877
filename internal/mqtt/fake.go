package mqtt

import (
	"sync"

	"github.com/sweeney/house-guard/internal/logic"
)

// FakePublisher captures everything handed to it. The accessors lock, so a
// test may inspect it while a loop goroutine is still publishing.
type FakePublisher struct {
	mu sync.Mutex

	Events         []logic.Event
	Payloads       [][]byte
	SystemEvents   []SystemEvent
	SystemPayloads [][]byte

	// Injected failures, returned before anything is recorded.
	PublishError       error
	PublishSystemError error

	Closed    bool
	Connected bool
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

func (f *FakePublisher) Publish(event logic.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	b, err := FormatPayload(event)
	if err != nil {
		return err
	}
	f.Events, f.Payloads = append(f.Events, event), append(f.Payloads, b)
	return nil
}

func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}
	b, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemEvents, f.SystemPayloads = append(f.SystemEvents, event), append(f.SystemPayloads, b)
	return nil
}

func (f *FakePublisher) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

func (f *FakePublisher) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Connected
}

// EventTypes lists the recorded controller event types in publish order.
func (f *FakePublisher) EventTypes() []logic.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []logic.EventType
	for _, e := range f.Events {
		out = append(out, e.Type)
	}
	return out
}

// SystemEventNames lists the recorded lifecycle event names in publish order.
func (f *FakePublisher) SystemEventNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, e := range f.SystemEvents {
		out = append(out, e.Event)
	}
	return out
}

// Reset returns the fake to its zero state.
func (f *FakePublisher) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Events, f.Payloads = nil, nil
	f.SystemEvents, f.SystemPayloads = nil, nil
	f.PublishError, f.PublishSystemError = nil, nil
	f.Closed, f.Connected = false, false
}
