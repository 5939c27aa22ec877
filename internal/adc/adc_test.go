package adc

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func device(gas, light, soil, steam string) fstest.MapFS {
	return fstest.MapFS{
		"in_voltage0_raw": {Data: []byte(gas)},
		"in_voltage1_raw": {Data: []byte(light)},
		"in_voltage2_raw": {Data: []byte(soil)},
		"in_voltage3_raw": {Data: []byte(steam)},
	}
}

func TestIIOReaderTenBit(t *testing.T) {
	r, err := newIIOReader(device("7\n", "512\n", "0\n", "1023\n"), DefaultChannels, 10)
	require.NoError(t, err)

	lv, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, Levels{Gas: 7, Light: 512, Soil: 0, Steam: 1023}, lv)
}

func TestIIOReaderScalesDown(t *testing.T) {
	r, err := newIIOReader(device("4095", "2048", "8", "4000"), DefaultChannels, 12)
	require.NoError(t, err)

	lv, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, Levels{Gas: 1023, Light: 512, Soil: 2, Steam: 1000}, lv)
}

func TestIIOReaderChannelMapping(t *testing.T) {
	ch := Channels{Gas: 3, Light: 2, Soil: 1, Steam: 0}
	r, err := newIIOReader(device("1", "2", "3", "4"), ch, 10)
	require.NoError(t, err)

	lv, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, Levels{Gas: 4, Light: 3, Soil: 2, Steam: 1}, lv)
}

func TestIIOReaderClampsNegative(t *testing.T) {
	r, err := newIIOReader(device("-3", "0", "0", "0"), DefaultChannels, 10)
	require.NoError(t, err)

	lv, err := r.Read()
	require.NoError(t, err)
	assert.Zero(t, lv.Gas)
}

func TestIIOReaderErrors(t *testing.T) {
	fsys := device("x", "1", "1", "1")
	delete(fsys, "in_voltage3_raw")
	r, err := newIIOReader(fsys, DefaultChannels, 10)
	require.NoError(t, err)

	_, err = r.Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read gas")
	assert.Contains(t, err.Error(), "read steam")
}

func TestNewIIOReaderValidates(t *testing.T) {
	_, err := newIIOReader(fstest.MapFS{}, DefaultChannels, 8)
	assert.Error(t, err)

	_, err = NewIIOReader(t.TempDir()+"/missing", DefaultChannels, 10)
	assert.Error(t, err)
}

func TestFakeReader(t *testing.T) {
	var f FakeReader
	f.Set(Levels{Gas: 9})
	lv, err := f.Read()
	require.NoError(t, err)
	assert.Equal(t, 9, lv.Gas)

	f.SetError(errors.New("bus error"))
	_, err = f.Read()
	assert.Error(t, err)
}
