package logic

import "time"

// Reactors holds the simple per-tick rules that sit beside the gas
// sequencer: remote commands, steam, and the two buttons. Motion needs no
// state and is projected directly in Controller.
type Reactors struct {
	// rainLatched fires once when steam rises above the threshold and
	// re-arms when it falls back.
	rainLatched bool
}

// Reset re-arms the rain latch.
func (r *Reactors) Reset() {
	r.rainLatched = false
}

// Update applies this tick's commands and sensor rules to intent. When
// claimed is true a gas session owns the buzzer and display, so no display
// request or chime is returned; intent changes still apply.
func (r *Reactors) Update(now time.Time, snap Snapshot, cmds []Command, intent *Intent, claimed bool) Response {
	var resp Response
	show := func(line1, line2 string) {
		if claimed {
			return
		}
		resp.Display = DisplayRequest{Action: DisplayTemporary, Line1: line1, Line2: line2, Duration: MessageDuration, Force: true}
	}

	for _, c := range cmds {
		switch c.Kind {
		case CommandToggleFan:
			intent.FanOn = !intent.FanOn
			show("Ventilator", onOff(intent.FanOn))
		case CommandFanOn, CommandFanOff:
			intent.FanOn = c.Kind == CommandFanOn
			show("Ventilator", onOff(intent.FanOn))
		case CommandToggleWindow:
			intent.WindowOpen = !intent.WindowOpen
			show("Door/Window", openClose(intent.WindowOpen))
		case CommandOpenWindow, CommandCloseWindow:
			intent.WindowOpen = c.Kind == CommandOpenWindow
			show("Door/Window", openClose(intent.WindowOpen))
		case CommandMessage:
			show(c.Line1, c.Line2)
		}
	}

	if snap.Wet() {
		if !r.rainLatched {
			r.rainLatched = true
			resp.Events = append(resp.Events, Event{Timestamp: now, Type: EventRainAlert, Intent: *intent})
			show("Rain alert!", "")
			if !claimed {
				resp.Chime = RainMelody
			}

			if intent.WindowOpen {
				intent.WindowOpen = false
				resp.Events = append(resp.Events, Event{Timestamp: now, Type: EventRainClose, Intent: *intent})
				show("Closing house", forSafety)
			}
		}
	} else {
		r.rainLatched = false
	}

	if snap.Button1Pressed {
		intent.FanOn = !intent.FanOn
		if !claimed {
			resp.Display = DisplayRequest{Action: DisplayTemporary, Line1: "Ventilator", Line2: onOff(intent.FanOn), Duration: MessageDuration}
		}
	}
	if snap.Button2Pressed {
		intent.WindowOpen = !intent.WindowOpen
		if !claimed {
			resp.Display = DisplayRequest{Action: DisplayTemporary, Line1: "Door/Window", Line2: openClose(intent.WindowOpen), Duration: MessageDuration}
		}
	}

	return resp
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

func openClose(open bool) string {
	if open {
		return "OPEN"
	}
	return "CLOSE"
}
