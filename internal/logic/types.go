// Package logic contains the pure control core of the house-guard device.
// This package has NO hardware, network, or OS dependencies (no GPIO, MQTT,
// files, or time.Sleep). Time is always injectable via time.Time parameters,
// and physical outputs are reached only through the Sounder and Screen
// interfaces.
package logic

import "time"

// Thresholds in raw sensor units.
const (
	// GasThreshold is the lowest gas reading treated as hazardous.
	GasThreshold = 6
	// SteamThreshold is exceeded (strictly) when water is detected.
	SteamThreshold = 100
)

// Servo angles for the door/window pair.
const (
	AngleClosed = 0
	AngleOpen   = 150
)

// Reading is one raw sample of every sensor. Buttons are already in logical
// form (true = pressed).
type Reading struct {
	Gas     int
	Light   int
	Soil    int
	Steam   int
	Motion  bool
	Button1 bool
	Button2 bool
}

// Snapshot is the per-tick environment view consumed by the control core.
// Button fields are rising edges: true only on the tick a press registers.
type Snapshot struct {
	Gas            int
	Light          int
	Soil           int
	Steam          int
	Motion         bool
	Button1Pressed bool
	Button2Pressed bool
}

// GasHigh reports whether the gas reading is at or above GasThreshold.
func (s Snapshot) GasHigh() bool {
	return s.Gas >= GasThreshold
}

// Wet reports whether the steam sensor detects water.
func (s Snapshot) Wet() bool {
	return s.Steam > SteamThreshold
}

// Intent is the actuator state shared by the gas sequencer and the
// peripheral reactors. The sequencer writes first each tick; the last
// writer wins.
type Intent struct {
	FanOn      bool
	WindowOpen bool
}

// Outputs is the physical actuator projection for one tick.
// FanA and FanB drive the two fan inputs and are never both true.
type Outputs struct {
	MotionLamp     bool
	RainLamp       bool
	FanA           bool
	FanB           bool
	Relay          bool
	ServosAttached bool
	DoorAngle      int
	WindowAngle    int
}

// BuzzerMode is the acoustic mode owned by the Buzzer arbiter.
type BuzzerMode string

const (
	BuzzerOff   BuzzerMode = "OFF"
	BuzzerSolid BuzzerMode = "SOLID"
	BuzzerSiren BuzzerMode = "SIREN"
)

// Plan is the staged response chosen once per gas session.
type Plan string

const (
	PlanNone         Plan = "NONE"
	PlanAlertOnly    Plan = "ALERT_ONLY"
	PlanVentOnly     Plan = "VENT_ONLY"
	PlanOpenOnly     Plan = "OPEN_ONLY"
	PlanOpenThenVent Plan = "OPEN_THEN_VENT"
)

// Stage is a phase within a gas session.
type Stage int

const (
	StageInitialAlert Stage = iota
	StageOpening
	StageVenting
	StageSteadyAlert
)

func (s Stage) String() string {
	switch s {
	case StageInitialAlert:
		return "INITIAL_ALERT"
	case StageOpening:
		return "OPENING"
	case StageVenting:
		return "VENTING"
	case StageSteadyAlert:
		return "STEADY_ALERT"
	}
	return "UNKNOWN"
}

// EventType names a controller event to be published.
type EventType string

const (
	EventGasAlert    EventType = "GAS_ALERT"
	EventGasPlan     EventType = "GAS_PLAN"
	EventGasOpening  EventType = "GAS_OPENING"
	EventGasVenting  EventType = "GAS_VENTING"
	EventGasSteady   EventType = "GAS_STEADY"
	EventGasCleared  EventType = "GAS_CLEARED"
	EventRainAlert   EventType = "RAIN_ALERT"
	EventRainClose   EventType = "RAIN_CLOSE"
	EventFanOn       EventType = "FAN_ON"
	EventFanOff      EventType = "FAN_OFF"
	EventWindowOpen  EventType = "WINDOW_OPEN"
	EventWindowClose EventType = "WINDOW_CLOSE"
)

// Event is something the controller did that is worth publishing.
// Session, Plan and Stage are set for gas events only.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Session   string
	Plan      Plan
	Stage     Stage
	Intent    Intent
}

// CommandKind identifies a remote command.
type CommandKind string

const (
	CommandToggleFan    CommandKind = "TOGGLE_FAN"
	CommandFanOn        CommandKind = "FAN_ON"
	CommandFanOff       CommandKind = "FAN_OFF"
	CommandToggleWindow CommandKind = "TOGGLE_WINDOW"
	CommandOpenWindow   CommandKind = "OPEN_WINDOW"
	CommandCloseWindow  CommandKind = "CLOSE_WINDOW"
	CommandMessage      CommandKind = "MESSAGE"
)

// Command is one parsed remote command. Line1 and Line2 are only used by
// CommandMessage.
type Command struct {
	Kind  CommandKind
	Line1 string
	Line2 string
}

// EventCounts tracks the number of selected events since startup.
type EventCounts struct {
	GasAlert    int
	GasCleared  int
	RainAlert   int
	FanOn       int
	FanOff      int
	WindowOpen  int
	WindowClose int
}

func (c *EventCounts) add(t EventType) {
	switch t {
	case EventGasAlert:
		c.GasAlert++
	case EventGasCleared:
		c.GasCleared++
	case EventRainAlert:
		c.RainAlert++
	case EventFanOn:
		c.FanOn++
	case EventFanOff:
		c.FanOff++
	case EventWindowOpen:
		c.WindowOpen++
	case EventWindowClose:
		c.WindowClose++
	}
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}
