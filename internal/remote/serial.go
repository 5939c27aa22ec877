package remote

import (
	"fmt"
	"io"
	"os"

	"go.bug.st/serial"
)

// OpenSerial opens a serial port in 8N1 mode at the given baud rate. The
// path "-" reads from stdin instead.
func OpenSerial(path string, baud int) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	port, err := serial.Open(path, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", path, err)
	}
	return port, nil
}
