package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sweeney/house-guard/internal/logic"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want logic.Command
		ok   bool
	}{
		{"F", logic.Command{Kind: logic.CommandToggleFan}, true},
		{"D", logic.Command{Kind: logic.CommandToggleWindow}, true},
		{"F:1", logic.Command{Kind: logic.CommandFanOn}, true},
		{"F:0", logic.Command{Kind: logic.CommandFanOff}, true},
		{"D:1", logic.Command{Kind: logic.CommandOpenWindow}, true},
		{"D:0", logic.Command{Kind: logic.CommandCloseWindow}, true},
		{"MHello", logic.Command{Kind: logic.CommandMessage, Line1: "Hello"}, true},
		{"MHello|World", logic.Command{Kind: logic.CommandMessage, Line1: "Hello", Line2: "World"}, true},
		{"M|below", logic.Command{Kind: logic.CommandMessage, Line2: "below"}, true},
		{"Ma|b|c", logic.Command{Kind: logic.CommandMessage, Line1: "a", Line2: "b|c"}, true},
		{"M", logic.Command{Kind: logic.CommandMessage}, true},
		{
			"Mthis first line is too long|and so is this second one",
			logic.Command{Kind: logic.CommandMessage, Line1: "this first line ", Line2: "and so is this s"},
			true,
		},
		{"f", logic.Command{}, false},
		{"FF", logic.Command{}, false},
		{"F:2", logic.Command{}, false},
		{"hello", logic.Command{}, false},
		{" F", logic.Command{}, false},
	}
	for _, tt := range tests {
		got, ok := Parse(tt.line)
		assert.Equal(t, tt.ok, ok, "Parse(%q)", tt.line)
		assert.Equal(t, tt.want, got, "Parse(%q)", tt.line)
	}
}
