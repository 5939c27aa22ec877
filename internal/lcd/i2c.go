package lcd

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// OpenI2C loads the host drivers, opens the I2C bus registered as name
// ("I2C1", or "" for the first bus) and addresses the backpack at addr.
func OpenI2C(name string, addr int) (Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", name, err)
	}
	return &backpack{Dev: i2c.Dev{Bus: bus, Addr: uint16(addr)}, bus: bus}, nil
}

// backpack is the addressed device plus the bus it owns.
type backpack struct {
	i2c.Dev
	bus i2c.BusCloser
}

func (b *backpack) Close() error {
	return b.bus.Close()
}
