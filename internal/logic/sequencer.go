package logic

import (
	"time"

	"github.com/google/uuid"
)

// Gas sequence timing.
const (
	// InitialAlertDwell is how long stage 0 runs before a plan is chosen.
	InitialAlertDwell = 3000 * time.Millisecond
	// ActionDwell is how long the opening and venting stages hold.
	ActionDwell = 3000 * time.Millisecond
	// SteadyRefresh throttles the held alert redraw in stage 3.
	SteadyRefresh = 1000 * time.Millisecond
)

// Gas sequence display text.
const (
	gasAlertText = "!! GAS ALERT !!"
	forSafety    = "for safety"
)

// GasSession is the state of one gas-alert episode. Stage is the next
// stage to fire once StageDeadline passes.
type GasSession struct {
	Active        bool
	ID            string
	StartedAt     time.Time
	Plan          Plan
	Stage         Stage
	StageDeadline time.Time
	// Sound is the buzzer mode the session currently claims.
	Sound BuzzerMode
}

// DisplayAction selects what a DisplayRequest asks of the Display arbiter.
type DisplayAction int

const (
	DisplayNone DisplayAction = iota
	DisplayTemporary
	DisplayHeld
	DisplayDefault
)

// DisplayRequest is a request for the Display arbiter. Force asks for an
// immediate redraw.
type DisplayRequest struct {
	Action   DisplayAction
	Line1    string
	Line2    string
	Duration time.Duration
	Force    bool
}

// Response collects what one component wants from the shared outputs this
// tick.
type Response struct {
	// Claimed is true when a gas session was active at any point this tick.
	Claimed bool
	Buzzer  BuzzerMode
	Chime   Melody
	Display DisplayRequest
	Events  []Event
}

// GasSequencer runs the staged gas safety procedure.
type GasSequencer struct {
	session   GasSession
	wasHigh   bool
	announced bool
	newID     func() string
}

// NewGasSequencer creates a sequencer. newID generates session IDs; nil
// uses random UUIDs.
func NewGasSequencer(newID func() string) *GasSequencer {
	if newID == nil {
		newID = uuid.NewString
	}
	return &GasSequencer{
		session: GasSession{Plan: PlanNone, Sound: BuzzerOff},
		newID:   newID,
	}
}

// Session returns a copy of the current session state.
func (g *GasSequencer) Session() GasSession {
	return g.session
}

// WasHigh reports the gas level observed on the previous tick.
func (g *GasSequencer) WasHigh() bool {
	return g.wasHigh
}

// Reset clears the session and the edge detector.
func (g *GasSequencer) Reset() {
	g.session = GasSession{Plan: PlanNone, Sound: BuzzerOff}
	g.wasHigh = false
	g.announced = false
}

// ChoosePlan maps the door/fan state at the end of stage 0 to a plan and
// the first stage it runs.
func ChoosePlan(windowOpen, fanOn bool) (Plan, Stage) {
	switch {
	case windowOpen && fanOn:
		return PlanAlertOnly, StageSteadyAlert
	case windowOpen && !fanOn:
		return PlanVentOnly, StageVenting
	case !windowOpen && !fanOn:
		return PlanOpenThenVent, StageOpening
	default:
		return PlanOpenOnly, StageOpening
	}
}

// Update advances the sequencer by one tick. It may change intent and
// returns the buzzer and display requests for this tick.
func (g *GasSequencer) Update(now time.Time, snap Snapshot, intent *Intent) Response {
	high := snap.GasHigh()
	var resp Response

	if high && !g.session.Active && !g.wasHigh {
		g.start(now, intent, &resp)
	}

	if g.session.Active {
		resp.Claimed = true
		if !high {
			g.teardown(now, intent, &resp)
		} else {
			g.advance(now, intent, &resp)
		}
	}

	g.wasHigh = high
	if resp.Claimed {
		resp.Buzzer = g.session.Sound
	}
	return resp
}

func (g *GasSequencer) start(now time.Time, intent *Intent, resp *Response) {
	g.session = GasSession{
		Active:        true,
		ID:            g.newID(),
		StartedAt:     now,
		Plan:          PlanNone,
		Stage:         StageInitialAlert,
		StageDeadline: now.Add(InitialAlertDwell),
		Sound:         BuzzerSolid,
	}
	g.announced = false
	resp.Display = DisplayRequest{Action: DisplayHeld, Line1: gasAlertText, Force: true}
	resp.Events = append(resp.Events, g.event(now, EventGasAlert, *intent))
}

func (g *GasSequencer) teardown(now time.Time, intent *Intent, resp *Response) {
	ev := g.event(now, EventGasCleared, *intent)
	g.session = GasSession{Plan: PlanNone, Sound: BuzzerOff}
	g.announced = false
	resp.Display = DisplayRequest{Action: DisplayDefault}
	resp.Events = append(resp.Events, ev)
}

func (g *GasSequencer) advance(now time.Time, intent *Intent, resp *Response) {
	s := &g.session

	if s.Stage == StageInitialAlert {
		s.Sound = BuzzerSolid
		if now.Before(s.StageDeadline) {
			return
		}
		s.Plan, s.Stage = ChoosePlan(intent.WindowOpen, intent.FanOn)
		s.StageDeadline = now
		resp.Events = append(resp.Events, g.event(now, EventGasPlan, *intent))
	}

	if s.Stage == StageOpening && !now.Before(s.StageDeadline) {
		intent.WindowOpen = true
		s.Sound = BuzzerSiren
		resp.Display = DisplayRequest{Action: DisplayTemporary, Line1: "Opening house", Line2: forSafety, Duration: ActionDwell, Force: true}
		resp.Events = append(resp.Events, g.event(now, EventGasOpening, *intent))

		s.StageDeadline = now.Add(ActionDwell)
		if s.Plan == PlanOpenThenVent {
			s.Stage = StageVenting
		} else {
			s.Stage = StageSteadyAlert
		}
	}

	if s.Stage == StageVenting && !now.Before(s.StageDeadline) {
		intent.FanOn = true
		s.Sound = BuzzerSiren
		resp.Display = DisplayRequest{Action: DisplayTemporary, Line1: "Ventilator ON", Line2: forSafety, Duration: ActionDwell, Force: true}
		resp.Events = append(resp.Events, g.event(now, EventGasVenting, *intent))

		s.StageDeadline = now.Add(ActionDwell)
		s.Stage = StageSteadyAlert
	}

	if s.Stage == StageSteadyAlert && !now.Before(s.StageDeadline) {
		s.Sound = BuzzerSolid
		resp.Display = DisplayRequest{Action: DisplayHeld, Line1: gasAlertText, Force: true}
		if !g.announced {
			g.announced = true
			resp.Events = append(resp.Events, g.event(now, EventGasSteady, *intent))
		}
		s.StageDeadline = now.Add(SteadyRefresh)
	}
}

func (g *GasSequencer) event(now time.Time, t EventType, intent Intent) Event {
	return Event{
		Timestamp: now,
		Type:      t,
		Session:   g.session.ID,
		Plan:      g.session.Plan,
		Stage:     g.session.Stage,
		Intent:    intent,
	}
}
