package remote

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/sweeney/house-guard/internal/logic"
)

// Parse maps one command line to a Command. Unrecognised lines return
// false.
//
//	F, D          toggle fan / door and window
//	F:1, F:0      fan on / off
//	D:1, D:0      open / close
//	M<l1>|<l2>    temporary message, each line cut to the display width
func Parse(line string) (logic.Command, bool) {
	switch line {
	case "F":
		return logic.Command{Kind: logic.CommandToggleFan}, true
	case "F:1":
		return logic.Command{Kind: logic.CommandFanOn}, true
	case "F:0":
		return logic.Command{Kind: logic.CommandFanOff}, true
	case "D":
		return logic.Command{Kind: logic.CommandToggleWindow}, true
	case "D:1":
		return logic.Command{Kind: logic.CommandOpenWindow}, true
	case "D:0":
		return logic.Command{Kind: logic.CommandCloseWindow}, true
	}

	msg, ok := strings.CutPrefix(line, "M")
	if !ok {
		return logic.Command{}, false
	}
	line1, line2, _ := strings.Cut(msg, "|")
	return logic.Command{
		Kind:  logic.CommandMessage,
		Line1: runewidth.Truncate(line1, logic.DisplayWidth, ""),
		Line2: runewidth.Truncate(line2, logic.DisplayWidth, ""),
	}, true
}
