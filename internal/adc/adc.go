// Package adc reads the four analog sensors through the Linux Industrial
// I/O sysfs interface. Raw values are scaled to the 10-bit range the
// control thresholds are expressed in.
package adc

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// Levels is one reading of the analog sensors, each 0..1023.
type Levels struct {
	Gas   int
	Light int
	Soil  int
	Steam int
}

// Reader reads the analog sensors.
type Reader interface {
	Read() (Levels, error)
}

// Channels maps sensors to IIO voltage channel indices.
type Channels struct {
	Gas   int `yaml:"gas"`
	Light int `yaml:"light"`
	Soil  int `yaml:"soil"`
	Steam int `yaml:"steam"`
}

// DefaultChannels matches the wiring of the reference build.
var DefaultChannels = Channels{Gas: 0, Light: 1, Soil: 2, Steam: 3}

const targetBits = 10

// IIOReader reads in_voltageN_raw attributes from one IIO device.
type IIOReader struct {
	fsys     fs.FS
	channels Channels
	shift    int
}

// NewIIOReader opens the IIO device directory dir (for example
// /sys/bus/iio/devices/iio:device0). bits is the converter resolution.
func NewIIOReader(dir string, channels Channels, bits int) (*IIOReader, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open iio device: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open iio device: %s is not a directory", dir)
	}
	return newIIOReader(os.DirFS(dir), channels, bits)
}

func newIIOReader(fsys fs.FS, channels Channels, bits int) (*IIOReader, error) {
	if bits < targetBits || bits > 24 {
		return nil, fmt.Errorf("adc resolution %d bits out of range %d..24", bits, targetBits)
	}
	return &IIOReader{fsys: fsys, channels: channels, shift: bits - targetBits}, nil
}

// Read samples all four channels.
func (r *IIOReader) Read() (Levels, error) {
	var lv Levels
	var errs []error
	for _, ch := range []struct {
		name  string
		index int
		dst   *int
	}{
		{"gas", r.channels.Gas, &lv.Gas},
		{"light", r.channels.Light, &lv.Light},
		{"soil", r.channels.Soil, &lv.Soil},
		{"steam", r.channels.Steam, &lv.Steam},
	} {
		v, err := r.readRaw(ch.index)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", ch.name, err))
			continue
		}
		*ch.dst = v
	}
	if err := errors.Join(errs...); err != nil {
		return Levels{}, err
	}
	return lv, nil
}

func (r *IIOReader) readRaw(index int) (int, error) {
	name := fmt.Sprintf("in_voltage%d_raw", index)
	b, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	if v < 0 {
		v = 0
	}
	v >>= r.shift
	if v > 1023 {
		v = 1023
	}
	return v, nil
}
