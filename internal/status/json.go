package status

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/sweeney/house-guard/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Ready         bool         `json:"ready"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	Sensors       SensorsJSON  `json:"sensors"`
	Outputs       OutputsJSON  `json:"outputs"`
	Display       []string     `json:"display"`
	GasSession    *SessionJSON `json:"gas_session,omitempty"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"event_counts"`
	Errors        ErrorsJSON   `json:"errors"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// SensorsJSON is the last sampled sensor state.
type SensorsJSON struct {
	Gas    int  `json:"gas"`
	Light  int  `json:"light"`
	Soil   int  `json:"soil"`
	Steam  int  `json:"steam"`
	Motion bool `json:"motion"`
}

// OutputsJSON is the actuator state.
type OutputsJSON struct {
	Fan        string `json:"fan"`
	Window     string `json:"window"`
	MotionLamp bool   `json:"motion_lamp"`
	RainLamp   bool   `json:"rain_lamp"`
	Buzzer     string `json:"buzzer"`
	Tone       bool   `json:"tone"`
}

// SessionJSON describes an active gas session.
type SessionJSON struct {
	ID        string `json:"id"`
	Plan      string `json:"plan"`
	Stage     string `json:"stage"`
	StartedAt string `json:"started_at"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	GasAlert    int `json:"gas_alert"`
	GasCleared  int `json:"gas_cleared"`
	RainAlert   int `json:"rain_alert"`
	FanOn       int `json:"fan_on"`
	FanOff      int `json:"fan_off"`
	WindowOpen  int `json:"window_open"`
	WindowClose int `json:"window_close"`
}

// ErrorsJSON summarises I/O errors since startup.
type ErrorsJSON struct {
	Count  int    `json:"count"`
	Last   string `json:"last,omitempty"`
	LastAt string `json:"last_at,omitempty"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	DebounceMs  int64  `json:"debounce_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
	Serial      string `json:"serial"`
}

// OnOff renders a boolean as ON/OFF.
func OnOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

// OpenClosed renders a boolean as OPEN/CLOSED.
func OpenClosed(b bool) string {
	if b {
		return "OPEN"
	}
	return "CLOSED"
}

func buildInner(snap Snapshot) StatusInner {
	d := snap.Device
	buzzer := string(d.Buzzer)
	if buzzer == "" {
		buzzer = string(logic.BuzzerOff)
	}

	inner := StatusInner{
		Ready:         d.Booted,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Sensors: SensorsJSON{
			Gas:    d.Sensors.Gas,
			Light:  d.Sensors.Light,
			Soil:   d.Sensors.Soil,
			Steam:  d.Sensors.Steam,
			Motion: d.Sensors.Motion,
		},
		Outputs: OutputsJSON{
			Fan:        OnOff(d.Intent.FanOn),
			Window:     OpenClosed(d.Intent.WindowOpen),
			MotionLamp: d.Outputs.MotionLamp,
			RainLamp:   d.Outputs.RainLamp,
			Buzzer:     buzzer,
			Tone:       d.ToneOn,
		},
		Display: []string{
			strings.TrimRight(d.Display[0], " "),
			strings.TrimRight(d.Display[1], " "),
		},
		MQTT: MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			GasAlert:    d.Counts.GasAlert,
			GasCleared:  d.Counts.GasCleared,
			RainAlert:   d.Counts.RainAlert,
			FanOn:       d.Counts.FanOn,
			FanOff:      d.Counts.FanOff,
			WindowOpen:  d.Counts.WindowOpen,
			WindowClose: d.Counts.WindowClose,
		},
		Errors: ErrorsJSON{Count: snap.ErrorCount, Last: snap.LastError},
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			DebounceMs:  snap.Config.DebounceMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			Serial:      snap.Config.Serial,
		},
	}
	if !snap.LastErrorAt.IsZero() {
		inner.Errors.LastAt = snap.LastErrorAt.UTC().Format(time.RFC3339)
	}
	if d.Session.Active {
		inner.GasSession = &SessionJSON{
			ID:        d.Session.ID,
			Plan:      string(d.Session.Plan),
			Stage:     d.Session.Stage.String(),
			StartedAt: d.Session.StartedAt.UTC().Format(time.RFC3339),
		}
	}
	return inner
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
