package gpio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeney/house-guard/internal/logic"
)

func TestFakeReaderRead(t *testing.T) {
	samples := []Inputs{
		{Motion: true},
		{Button1: true},
		{Motion: true, Button2: true},
	}
	f := NewFakeReader(samples)

	for i, want := range samples {
		got, err := f.Read()
		require.NoError(t, err)
		assert.Equal(t, want, got, "sample %d", i)
	}

	// Exhausted samples repeat the last one.
	got, err := f.Read()
	require.NoError(t, err)
	assert.Equal(t, samples[2], got)
}

func TestFakeReaderNoSamples(t *testing.T) {
	f := NewFakeReader(nil)
	_, err := f.Read()
	assert.Error(t, err)
}

func TestFakeReaderError(t *testing.T) {
	f := NewFakeReader([]Inputs{{Motion: true}})
	f.ReadError = errors.New("simulated error")

	_, err := f.Read()
	assert.EqualError(t, err, "simulated error")
}

func TestFakeReaderCloseAndReset(t *testing.T) {
	f := NewFakeReader([]Inputs{{Motion: true}, {Button1: true}})
	require.False(t, f.Closed)

	_, _ = f.Read()
	require.NoError(t, f.Close())
	assert.True(t, f.Closed)

	f.Reset()
	assert.False(t, f.Closed)
	got, _ := f.Read()
	assert.Equal(t, Inputs{Motion: true}, got)
}

func TestFakeWriterRecords(t *testing.T) {
	w := &FakeWriter{}
	_, ok := w.Last()
	require.False(t, ok)

	require.NoError(t, w.Write(logic.Outputs{MotionLamp: true}))
	require.NoError(t, w.Write(logic.Outputs{FanA: true}))

	assert.Len(t, w.Writes(), 2)
	last, ok := w.Last()
	require.True(t, ok)
	assert.True(t, last.FanA)
	assert.False(t, w.FanConflict)

	require.NoError(t, w.Write(logic.Outputs{FanA: true, FanB: true}))
	assert.True(t, w.FanConflict)

	require.NoError(t, w.Close())
	assert.True(t, w.Closed())
}

func TestFakeWriterError(t *testing.T) {
	w := &FakeWriter{WriteError: errors.New("line busy")}
	assert.Error(t, w.Write(logic.Outputs{}))
	assert.Empty(t, w.Writes())
}

func TestLevelsOrder(t *testing.T) {
	l := levels(logic.Outputs{MotionLamp: true, FanB: true, Relay: true, DoorAngle: 150})
	assert.Equal(t, [5]bool{true, false, false, true, true}, l)
}
