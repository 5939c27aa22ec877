//go:build !linux

package gpio

import (
	"errors"

	"github.com/sweeney/house-guard/internal/logic"
)

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealReader is not available on non-Linux platforms.
type RealReader struct{}

// NewRealReader returns an error on non-Linux platforms.
func NewRealReader(chipName string, pins InputPins) (*RealReader, error) {
	return nil, errUnsupported
}

// Read is not implemented on non-Linux platforms.
func (r *RealReader) Read() (Inputs, error) {
	return Inputs{}, errUnsupported
}

// Close is a no-op on non-Linux platforms.
func (r *RealReader) Close() error {
	return nil
}

// RealWriter is not available on non-Linux platforms.
type RealWriter struct{}

// NewRealWriter returns an error on non-Linux platforms.
func NewRealWriter(chipName string, pins OutputPins) (*RealWriter, error) {
	return nil, errUnsupported
}

// Write is not implemented on non-Linux platforms.
func (w *RealWriter) Write(o logic.Outputs) error {
	return errUnsupported
}

// Close is a no-op on non-Linux platforms.
func (w *RealWriter) Close() error {
	return nil
}
