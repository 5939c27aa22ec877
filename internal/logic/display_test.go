package logic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", strings.Repeat(" ", 16)},
		{"All ready", "All ready       "},
		{"exactly sixteen!", "exactly sixteen!"},
		{"this line is far too long", "this line is far"},
	}
	for _, tt := range tests {
		got := FitLine(tt.in)
		assert.Equal(t, tt.want, got, "FitLine(%q)", tt.in)
		assert.Len(t, got, DisplayWidth)
	}
}

func TestDefaultView(t *testing.T) {
	l1, l2 := DefaultView(Snapshot{Gas: 3, Light: 512, Soil: 77, Steam: 12})
	assert.Equal(t, "G:3 L:512       ", l1)
	assert.Equal(t, "Stm:12 Sl:77    ", l2)
}

func TestDefaultViewIdempotent(t *testing.T) {
	screen := &fakeScreen{}
	d := NewDisplay(screen)
	snap := Snapshot{Gas: 1, Light: 2, Soil: 3, Steam: 4}

	require.NoError(t, d.RenderNow(at(0), snap))
	require.NoError(t, d.RenderNow(at(10), snap))

	require.Len(t, screen.writes, 2)
	assert.Equal(t, screen.writes[0], screen.writes[1])
}

func TestDisplayTemporaryExpires(t *testing.T) {
	screen := &fakeScreen{}
	d := NewDisplay(screen)
	snap := Snapshot{Gas: 1, Light: 2, Soil: 3, Steam: 4}

	d.ShowTemporary(at(0), "Door/Window", "OPEN", MessageDuration)
	require.NoError(t, d.RefreshIfDue(at(0), snap))
	assert.Equal(t, [2]string{FitLine("Door/Window"), FitLine("OPEN")}, screen.last())

	require.NoError(t, d.RefreshIfDue(at(2999), snap))
	assert.Equal(t, FitLine("Door/Window"), screen.last()[0])

	require.NoError(t, d.RefreshIfDue(at(3000), snap))
	l1, l2 := DefaultView(snap)
	assert.Equal(t, [2]string{l1, l2}, screen.last())
}

func TestDisplayHeldPersists(t *testing.T) {
	screen := &fakeScreen{}
	d := NewDisplay(screen)
	snap := Snapshot{}

	d.ShowHeld("!! GAS ALERT !!", "")
	for ms := 0; ms <= 60000; ms += 500 {
		require.NoError(t, d.RefreshIfDue(at(ms), snap))
	}
	assert.True(t, d.Held())
	assert.Equal(t, FitLine("!! GAS ALERT !!"), screen.last()[0])

	d.ClearToDefault()
	require.NoError(t, d.RefreshIfDue(at(60100), snap))
	l1, _ := DefaultView(snap)
	assert.Equal(t, l1, screen.last()[0])
	assert.False(t, d.Held())
}

func TestDisplayRefreshThrottle(t *testing.T) {
	screen := &fakeScreen{}
	d := NewDisplay(screen)
	snap := Snapshot{Gas: 1}

	// 20ms ticks for two seconds: the default view is redrawn every 500ms.
	for ms := 0; ms < 2000; ms += 20 {
		require.NoError(t, d.RefreshIfDue(at(ms), snap))
	}
	assert.Len(t, screen.writes, 4)
}

func TestDisplayOneWritePerTick(t *testing.T) {
	screen := &fakeScreen{}
	d := NewDisplay(screen)
	snap := Snapshot{}

	require.NoError(t, d.RefreshIfDue(at(0), snap))
	require.Len(t, screen.writes, 1)

	d.ShowTemporary(at(100), "first", "", MessageDuration)
	require.NoError(t, d.RenderNow(at(100), snap))
	d.ShowTemporary(at(100), "second", "", MessageDuration)
	require.NoError(t, d.RefreshIfDue(at(100), snap))
	assert.Len(t, screen.writes, 2, "second change must wait for the next tick")

	require.NoError(t, d.RefreshIfDue(at(120), snap))
	require.Len(t, screen.writes, 3)
	assert.Equal(t, FitLine("second"), screen.last()[0])
}

func TestDisplayFrameHasNoSideEffects(t *testing.T) {
	screen := &fakeScreen{}
	d := NewDisplay(screen)
	d.ShowTemporary(at(0), "hello", "world", MessageDuration)

	l1, l2 := d.Frame(at(5000), Snapshot{})
	dl1, dl2 := DefaultView(Snapshot{})
	assert.Equal(t, dl1, l1)
	assert.Equal(t, dl2, l2)
	assert.Empty(t, screen.writes)

	l1, _ = d.Frame(at(100), Snapshot{})
	assert.Equal(t, FitLine("hello"), l1)
}
