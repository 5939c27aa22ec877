package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/sweeney/house-guard/internal/adc"
	"github.com/sweeney/house-guard/internal/config"
	"github.com/sweeney/house-guard/internal/gpio"
	"github.com/sweeney/house-guard/internal/lcd"
	"github.com/sweeney/house-guard/internal/logic"
	"github.com/sweeney/house-guard/internal/pwm"
	"github.com/sweeney/house-guard/internal/remote"
)

// closers releases resources in reverse order of acquisition.
type closers []func() error

func (c closers) Close() error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		errs = append(errs, c[i]())
	}
	return errors.Join(errs...)
}

// sensors are the input devices.
type sensors struct {
	inputs gpio.Reader
	analog adc.Reader
	closers
}

func openSensors(cfg *config.Config) (*sensors, error) {
	in, err := gpio.NewRealReader(cfg.GPIO.Chip, cfg.GPIO.Inputs)
	if err != nil {
		return nil, fmt.Errorf("init gpio inputs: %w", err)
	}
	analog, err := adc.NewIIOReader(cfg.ADC.Dir, cfg.ADC.Channels, cfg.ADC.Bits)
	if err != nil {
		in.Close()
		return nil, fmt.Errorf("init adc: %w", err)
	}
	return &sensors{inputs: in, analog: analog, closers: closers{in.Close}}, nil
}

// actuators are the output devices. The control loop owns all of them.
type actuators struct {
	lines  gpio.Writer
	servos *pwm.Servos
	buzzer *pwm.Buzzer
	screen logic.Screen
	closers
}

func openActuators(cfg *config.Config, console io.Writer) (_ *actuators, err error) {
	a := &actuators{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	lines, err := gpio.NewRealWriter(cfg.GPIO.Chip, cfg.GPIO.Outputs)
	if err != nil {
		return nil, fmt.Errorf("init gpio outputs: %w", err)
	}
	a.lines = lines
	a.closers = append(a.closers, lines.Close)

	ch, err := openChannel(cfg.PWM.Buzzer)
	if err != nil {
		return nil, fmt.Errorf("init buzzer: %w", err)
	}
	a.buzzer = pwm.NewBuzzer(ch)
	a.closers = append(a.closers, a.buzzer.Close)

	door, err := openServo(cfg.PWM.Door)
	if err != nil {
		return nil, fmt.Errorf("init door servo: %w", err)
	}
	a.closers = append(a.closers, door.Close)

	window, err := openServo(cfg.PWM.Window)
	if err != nil {
		return nil, fmt.Errorf("init window servo: %w", err)
	}
	a.closers = append(a.closers, window.Close)
	a.servos = &pwm.Servos{Door: door, Window: window}

	if cfg.LCD.Device == config.ConsoleDevice {
		a.screen = lcd.NewConsole(console)
		return a, nil
	}
	bus, err := lcd.OpenI2C(cfg.LCD.Device, cfg.LCD.Address)
	if err != nil {
		return nil, fmt.Errorf("init lcd: %w", err)
	}
	display, err := lcd.NewHD44780(bus)
	if err != nil {
		bus.Close()
		return nil, err
	}
	a.screen = display
	a.closers = append(a.closers, display.Close)
	return a, nil
}

func openChannel(name string) (*pwm.Channel, error) {
	pin, err := pwm.OpenPin(name)
	if err != nil {
		return nil, err
	}
	return pwm.NewChannel(name, pin), nil
}

func openServo(name string) (*pwm.Servo, error) {
	ch, err := openChannel(name)
	if err != nil {
		return nil, err
	}
	return pwm.NewServo(ch), nil
}

// openRemote opens the command stream, or returns nil when none is
// configured.
func openRemote(cfg *config.Config) (io.ReadCloser, error) {
	if cfg.Serial.Device == "" {
		return nil, nil
	}
	return remote.OpenSerial(cfg.Serial.Device, cfg.Serial.Baud)
}
