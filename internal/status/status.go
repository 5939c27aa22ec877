// Package status provides a thread-safe status tracker for the house-guard
// daemon. The control loop writes it once per tick; HTTP handlers and
// lifecycle messages read value snapshots.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/house-guard/internal/logic"
)

// NetworkInfo mirrors config.Network so status stays free of the config package.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config is the subset of daemon settings shown on the status page.
type Config struct {
	PollMs      int64
	DebounceMs  int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
	Serial      string
}

// Device is the controller state published after each tick.
type Device struct {
	Sensors logic.Snapshot
	Intent  logic.Intent
	Outputs logic.Outputs
	Buzzer  logic.BuzzerMode
	ToneOn  bool
	Display [2]string
	Session logic.GasSession
	Booted  bool
	Counts  logic.EventCounts
}

// Snapshot is a copy of the tracked state. Network is shared and must be
// treated as read-only.
type Snapshot struct {
	Device
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
	ErrorCount    int
	LastError     string
	LastErrorAt   time.Time
}

func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker is written by the control loop and read by everything else.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
			Device:    Device{Buzzer: logic.BuzzerOff, Session: logic.GasSession{Plan: logic.PlanNone, Sound: logic.BuzzerOff}},
		},
		now: time.Now,
	}
}

// Update replaces the device half of the state.
func (t *Tracker) Update(d Device) {
	t.mu.Lock()
	t.snap.Device = d
	t.mu.Unlock()
}

// RecordError counts a hardware or publish error and keeps the latest one.
func (t *Tracker) RecordError(at time.Time, err error) {
	if err == nil {
		return
	}
	t.mu.Lock()
	t.snap.ErrorCount++
	t.snap.LastError = err.Error()
	t.snap.LastErrorAt = at
	t.mu.Unlock()
}

func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot copies the state and stamps Now.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = t.now()
	return s
}
