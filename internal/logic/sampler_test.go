package logic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSamplerCopiesAnalogValues(t *testing.T) {
	s := NewSampler(0)
	snap := s.Sample(at(0), Reading{Gas: 1, Light: 2, Soil: 3, Steam: 4, Motion: true})
	assert.Equal(t, Snapshot{Gas: 1, Light: 2, Soil: 3, Steam: 4, Motion: true}, snap)
}

func TestSamplerButtonEdge(t *testing.T) {
	s := NewSampler(0)

	assert.True(t, s.Sample(at(0), Reading{Button1: true}).Button1Pressed)
	assert.False(t, s.Sample(at(100), Reading{Button1: true}).Button1Pressed, "held is not a new press")
	assert.False(t, s.Sample(at(200), Reading{}).Button1Pressed, "release is not a press")
	assert.True(t, s.Sample(at(300), Reading{Button1: true}).Button1Pressed)
}

func TestSamplerDebounce(t *testing.T) {
	s := NewSampler(50 * time.Millisecond)

	tests := []struct {
		ms      int
		raw     bool
		pressed bool
	}{
		{0, true, false},   // first seen
		{20, false, false}, // bounce resets
		{40, true, false},  // seen again
		{80, true, false},
		{90, true, true}, // stable for 50ms
		{100, true, false},
		{110, false, false},
		{170, false, false}, // release settles
		{200, true, false},
		{250, true, true},
	}
	for _, tt := range tests {
		snap := s.Sample(at(tt.ms), Reading{Button2: tt.raw})
		assert.Equal(t, tt.pressed, snap.Button2Pressed, "pressed at %dms", tt.ms)
		assert.False(t, snap.Button1Pressed)
	}
}

func TestSamplerReset(t *testing.T) {
	s := NewSampler(0)
	s.Sample(at(0), Reading{Button1: true})
	s.Reset()

	assert.True(t, s.Sample(at(100), Reading{Button1: true}).Button1Pressed)
}
