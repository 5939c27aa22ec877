package status

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeney/house-guard/internal/logic"
)

var start = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func fixedTracker(cfg Config, now time.Time) *Tracker {
	tr := NewTracker(start, cfg)
	tr.now = func() time.Time { return now }
	return tr
}

func TestNewTracker(t *testing.T) {
	cfg := Config{PollMs: 50, DebounceMs: 30, Broker: "tcp://localhost:1883", HTTPAddr: ":8080"}
	tr := NewTracker(start, cfg)

	snap := tr.Snapshot()
	assert.True(t, snap.StartTime.Equal(start))
	assert.Equal(t, cfg, snap.Config)
	assert.False(t, snap.Booted)
	assert.False(t, snap.MQTTConnected)
	assert.Equal(t, logic.BuzzerOff, snap.Buzzer)
	assert.Zero(t, snap.ErrorCount)
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(start, Config{})
	d := Device{
		Sensors: logic.Snapshot{Gas: 9, Steam: 120},
		Intent:  logic.Intent{FanOn: true},
		Buzzer:  logic.BuzzerSiren,
		Booted:  true,
		Counts:  logic.EventCounts{GasAlert: 2},
	}
	tr.Update(d)

	snap := tr.Snapshot()
	assert.Equal(t, d, snap.Device)
}

func TestRecordError(t *testing.T) {
	tr := NewTracker(start, Config{})
	tr.RecordError(start, nil)
	assert.Zero(t, tr.Snapshot().ErrorCount)

	tr.RecordError(start.Add(time.Second), errors.New("read gas: i/o error"))
	tr.RecordError(start.Add(2*time.Second), errors.New("write fan A: busy"))

	snap := tr.Snapshot()
	assert.Equal(t, 2, snap.ErrorCount)
	assert.Equal(t, "write fan A: busy", snap.LastError)
	assert.Equal(t, start.Add(2*time.Second), snap.LastErrorAt)
}

func TestSetMQTTConnectedAndNetwork(t *testing.T) {
	tr := NewTracker(start, Config{})

	tr.SetMQTTConnected(true)
	assert.True(t, tr.Snapshot().MQTTConnected)
	tr.SetMQTTConnected(false)
	assert.False(t, tr.Snapshot().MQTTConnected)

	assert.Nil(t, tr.Snapshot().Network)
	tr.SetNetwork(&NetworkInfo{Type: "wifi", IP: "192.168.1.42"})
	require.NotNil(t, tr.Snapshot().Network)
	assert.Equal(t, "192.168.1.42", tr.Snapshot().Network.IP)
}

func TestSnapshotUptime(t *testing.T) {
	tr := fixedTracker(Config{}, start.Add(90*time.Second))
	assert.Equal(t, 90*time.Second, tr.Snapshot().Uptime())
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := NewTracker(start, Config{})
	tr.Update(Device{Counts: logic.EventCounts{FanOn: 1}})

	snap := tr.Snapshot()
	tr.Update(Device{Counts: logic.EventCounts{FanOn: 5}})
	assert.Equal(t, 1, snap.Counts.FanOn)
}

func TestFormatJSON(t *testing.T) {
	tr := fixedTracker(Config{PollMs: 50, Broker: "tcp://b:1883", HTTPAddr: ":80", Serial: "/dev/rfcomm0"}, start.Add(65*time.Second))
	tr.Update(Device{
		Sensors: logic.Snapshot{Gas: 12, Light: 300, Soil: 40, Steam: 5, Motion: true},
		Intent:  logic.Intent{WindowOpen: true},
		Outputs: logic.Outputs{MotionLamp: true},
		Buzzer:  logic.BuzzerSolid,
		Display: [2]string{"!! GAS ALERT !! ", "                "},
		Session: logic.GasSession{
			Active:    true,
			ID:        "abc",
			Plan:      logic.PlanVentOnly,
			Stage:     logic.StageVenting,
			StartedAt: start.Add(60 * time.Second),
		},
		Booted: true,
		Counts: logic.EventCounts{GasAlert: 1},
	})
	tr.SetMQTTConnected(true)

	var parsed StatusJSON
	require.NoError(t, json.Unmarshal(FormatJSON(tr.Snapshot()), &parsed))
	s := parsed.Status

	assert.Empty(t, s.Event)
	assert.True(t, s.Ready)
	assert.EqualValues(t, 65, s.UptimeSeconds)
	assert.Equal(t, "2026-01-01T00:00:00Z", s.StartTime)
	assert.Equal(t, SensorsJSON{Gas: 12, Light: 300, Soil: 40, Steam: 5, Motion: true}, s.Sensors)
	assert.Equal(t, "OFF", s.Outputs.Fan)
	assert.Equal(t, "OPEN", s.Outputs.Window)
	assert.Equal(t, "SOLID", s.Outputs.Buzzer)
	assert.Equal(t, []string{"!! GAS ALERT !!", ""}, s.Display)
	require.NotNil(t, s.GasSession)
	assert.Equal(t, SessionJSON{ID: "abc", Plan: "VENT_ONLY", Stage: "VENTING", StartedAt: "2026-01-01T00:01:00Z"}, *s.GasSession)
	assert.True(t, s.MQTT.Connected)
	assert.Equal(t, "tcp://b:1883", s.MQTT.Broker)
	assert.Equal(t, 1, s.Counts.GasAlert)
	assert.Equal(t, "/dev/rfcomm0", s.Config.Serial)
	assert.Nil(t, s.Network)
}

func TestFormatJSONOmitsIdleSession(t *testing.T) {
	tr := fixedTracker(Config{}, start)
	data := FormatJSON(tr.Snapshot())
	assert.NotContains(t, string(data), "gas_session")
	assert.Contains(t, string(data), `"buzzer": "OFF"`)
}

func TestFormatStatusEvent(t *testing.T) {
	tr := fixedTracker(Config{}, start.Add(time.Hour))
	tr.SetNetwork(&NetworkInfo{Type: "ethernet", IP: "10.0.0.2", SSID: "MyNet"})
	tr.RecordError(start.Add(time.Minute), errors.New("boom"))

	var parsed StatusJSON
	require.NoError(t, json.Unmarshal(FormatStatusEvent(tr.Snapshot(), "SHUTDOWN", "SIGTERM"), &parsed))

	assert.Equal(t, "SHUTDOWN", parsed.Status.Event)
	assert.Equal(t, "SIGTERM", parsed.Status.Reason)
	require.NotNil(t, parsed.Status.Network)
	assert.Equal(t, "MyNet", parsed.Status.Network.SSID)
	assert.Equal(t, ErrorsJSON{Count: 1, Last: "boom", LastAt: "2026-01-01T00:01:00Z"}, parsed.Status.Errors)
}

func TestFormatStatusEventOmitsReasonWhenEmpty(t *testing.T) {
	data := FormatStatusEvent(fixedTracker(Config{}, start).Snapshot(), "HEARTBEAT", "")

	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.NotContains(t, raw["status"], "reason")
	assert.Equal(t, "HEARTBEAT", raw["status"]["event"])
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			tr.Update(Device{Counts: logic.EventCounts{FanOn: i}})
			tr.SetMQTTConnected(i%2 == 0)
			tr.SetNetwork(&NetworkInfo{IP: "1.2.3.4"})
			tr.RecordError(time.Now(), errors.New("x"))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			_ = FormatJSON(tr.Snapshot())
		}
	}()

	wg.Wait()
}
