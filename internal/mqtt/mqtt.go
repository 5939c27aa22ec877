// Package mqtt publishes controller events and lifecycle messages to an
// MQTT broker. Telemetry only: nothing is subscribed to.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/house-guard/internal/logic"
)

const (
	Topic       = "home/house-guard/events" // controller events
	TopicSystem = "home/house-guard/system" // lifecycle: STARTUP, HEARTBEAT, SHUTDOWN, OFFLINE
)

// Publisher is the outbound side of the daemon. A failed publish is reported
// to the caller and never stops the control loop.
type Publisher interface {
	Publish(event logic.Event) error
	PublishSystem(event SystemEvent) error
	Close() error
}

// ConnectionStatus is implemented by publishers that track a broker link.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent is a lifecycle message. When RawPayload is non-nil it is sent
// as is and the other fields only label the message.
type SystemEvent struct {
	Timestamp  time.Time
	Event      string
	Reason     string // shutdown cause, or why the link went away
	RawPayload []byte
	Retained   bool
}

// Payload wraps a controller event as {"house": {...}}.
type Payload struct {
	House HousePayload `json:"house"`
}

type HousePayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Session   string `json:"session,omitempty"`
	Plan      string `json:"plan,omitempty"`
	Stage     string `json:"stage,omitempty"`
	Fan       string `json:"fan"`
	Window    string `json:"window"`
}

// FormatPayload creates the JSON payload for a controller event. Session,
// plan and stage are only set for gas events.
func FormatPayload(event logic.Event) ([]byte, error) {
	p := HousePayload{
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
		Event:     string(event.Type),
		Fan:       "OFF",
		Window:    "CLOSED",
	}
	if event.Intent.FanOn {
		p.Fan = "ON"
	}
	if event.Intent.WindowOpen {
		p.Window = "OPEN"
	}
	if event.Session != "" {
		p.Session = event.Session
		p.Plan = string(event.Plan)
		p.Stage = event.Stage.String()
	}
	return json.Marshal(Payload{House: p})
}

// SystemPayload is the short lifecycle form used by the will and by
// RECONNECTED, which carry no status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}
	return json.Marshal(SystemPayload{System: SystemPayloadInner{
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
		Event:     event.Event,
		Reason:    event.Reason,
	}})
}

// WillPayload is registered as the connection's last will: OFFLINE with
// reason MQTT_DISCONNECT.
func WillPayload(connectedAt time.Time) []byte {
	payload, _ := FormatSystemPayload(SystemEvent{
		Timestamp: connectedAt,
		Event:     "OFFLINE",
		Reason:    "MQTT_DISCONNECT",
	})
	return payload
}
