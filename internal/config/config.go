package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/house-guard/internal/adc"
	"github.com/sweeney/house-guard/internal/gpio"
	"github.com/sweeney/house-guard/internal/logger"
)

// Config holds everything the daemon needs to wire hardware and telemetry.
type Config struct {
	GPIO      GPIO          `yaml:"gpio"`
	ADC       ADC           `yaml:"adc"`
	PWM       PWM           `yaml:"pwm"`
	LCD       LCD           `yaml:"lcd"`
	Serial    Serial        `yaml:"serial"`
	MQTT      MQTT          `yaml:"mqtt"`
	HTTPAddr  string        `yaml:"http_addr"`
	Poll      time.Duration `yaml:"poll"`
	Debounce  time.Duration `yaml:"debounce"`
	Heartbeat time.Duration `yaml:"heartbeat"`
	LogLevel  string        `yaml:"log_level"`
}

// GPIO selects the character device and line offsets.
type GPIO struct {
	Chip    string          `yaml:"chip"`
	Inputs  gpio.InputPins  `yaml:"inputs"`
	Outputs gpio.OutputPins `yaml:"outputs"`
}

// ADC selects the IIO device exposing the four analog sensors.
type ADC struct {
	Dir      string       `yaml:"dir"`
	Bits     int          `yaml:"bits"`
	Channels adc.Channels `yaml:"channels"`
}

// PWM names the periph pin of each PWM output ("GPIO18"). Door and window
// may share a hardware channel; they are always driven to the same angle.
type PWM struct {
	Buzzer string `yaml:"buzzer"`
	Door   string `yaml:"door"`
	Window string `yaml:"window"`
}

// LCD selects the text display: a periph I2C bus name ("I2C1", or "" for
// the first bus) and the backpack address. Device "console" renders to
// stdout instead.
type LCD struct {
	Device  string `yaml:"device"`
	Address int    `yaml:"address"`
}

// ConsoleDevice is the LCD device name for the terminal renderer.
const ConsoleDevice = "console"

// Serial selects the remote command stream. An empty device disables it;
// "-" reads stdin.
type Serial struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
}

// MQTT configures telemetry.
type MQTT struct {
	Broker     string `yaml:"broker"`
	ClientID   string `yaml:"client_id"`
	BufferSize int    `yaml:"buffer_size"`
}

const (
	// DefaultConfigFilename is the config path used when none is given.
	DefaultConfigFilename = "/etc/house-guard/config.yaml"

	// DefaultFilePermissions is the file mode used by Save.
	DefaultFilePermissions = 0o644
)

var (
	errConfigIsNotSet    = errors.New("configuration is not set")
	errPollRequired      = errors.New("poll interval must be positive")
	errDebounceNegative  = errors.New("debounce must not be negative")
	errHeartbeatNegative = errors.New("heartbeat must not be negative")
	errBrokerRequired    = errors.New("mqtt broker must be provided")
	errBufferSize        = errors.New("mqtt buffer size must be at least 1")
	errChipRequired      = errors.New("gpio chip must be provided")
	errPinConflict       = errors.New("gpio line assigned twice")
	errPWMConflict       = errors.New("pwm pin assigned twice")
	errPWMPinRequired    = errors.New("pwm pin must be provided")
	errADCBits           = errors.New("adc resolution must be between 10 and 24 bits")
	errLCDAddress        = errors.New("lcd i2c address out of range")
	errBaudRequired      = errors.New("serial baud must be positive")
	errLogLevel          = errors.New("unknown log level")
)

// Default returns the settings of the reference build.
func Default() *Config {
	return &Config{
		GPIO: GPIO{
			Chip:    "gpiochip0",
			Inputs:  gpio.DefaultInputPins,
			Outputs: gpio.DefaultOutputPins,
		},
		ADC: ADC{
			Dir:      "/sys/bus/iio/devices/iio:device0",
			Bits:     12,
			Channels: adc.DefaultChannels,
		},
		PWM: PWM{
			Buzzer: "GPIO13",
			Door:   "GPIO18",
			Window: "GPIO12",
		},
		LCD:    LCD{Device: "I2C1", Address: 0x27},
		Serial: Serial{Baud: 9600},
		MQTT: MQTT{
			Broker:     "tcp://192.168.1.200:1883",
			ClientID:   "house-guard",
			BufferSize: 100,
		},
		HTTPAddr:  ":80",
		Poll:      20 * time.Millisecond,
		Debounce:  50 * time.Millisecond,
		Heartbeat: 15 * time.Minute,
		LogLevel:  "info",
	}
}

// Load reads settings from path on top of Default. A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	cfg := Default()

	contents, err := os.ReadFile(filepath.Clean(path))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes cfg to path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// Validate checks cfg for missing or conflicting settings.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.Poll <= 0 {
		return errPollRequired
	}
	if cfg.Debounce < 0 {
		return errDebounceNegative
	}
	if cfg.Heartbeat < 0 {
		return errHeartbeatNegative
	}

	if cfg.MQTT.Broker == "" {
		return errBrokerRequired
	}
	if _, err := url.Parse(cfg.MQTT.Broker); err != nil {
		return fmt.Errorf("invalid mqtt broker: %w", err)
	}
	if cfg.MQTT.BufferSize < 1 {
		return errBufferSize
	}

	if cfg.GPIO.Chip == "" {
		return errChipRequired
	}
	if err := checkPins(cfg.GPIO, cfg.PWM); err != nil {
		return err
	}

	if cfg.ADC.Bits < 10 || cfg.ADC.Bits > 24 {
		return errADCBits
	}

	if cfg.LCD.Device != ConsoleDevice && (cfg.LCD.Address < 0x03 || cfg.LCD.Address > 0x77) {
		return fmt.Errorf("%w: 0x%02x", errLCDAddress, cfg.LCD.Address)
	}

	if cfg.Serial.Device != "" && cfg.Serial.Baud <= 0 {
		return errBaudRequired
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errLogLevel, cfg.LogLevel)
	}

	return nil
}

func checkPins(g GPIO, pw PWM) error {
	pwmPins := map[string]string{}
	for _, out := range []struct{ name, pin string }{
		{"buzzer", pw.Buzzer},
		{"door", pw.Door},
		{"window", pw.Window},
	} {
		if out.pin == "" {
			return fmt.Errorf("%w: %s", errPWMPinRequired, out.name)
		}
		if prev, ok := pwmPins[out.pin]; ok {
			return fmt.Errorf("%w: %s used by %s and %s", errPWMConflict, out.pin, prev, out.name)
		}
		pwmPins[out.pin] = out.name
	}

	lines := map[int]string{}
	for _, p := range []struct {
		name string
		line int
	}{
		{"motion", g.Inputs.Motion},
		{"button1", g.Inputs.Button1},
		{"button2", g.Inputs.Button2},
		{"motion_lamp", g.Outputs.MotionLamp},
		{"rain_lamp", g.Outputs.RainLamp},
		{"fan_a", g.Outputs.FanA},
		{"fan_b", g.Outputs.FanB},
		{"relay", g.Outputs.Relay},
	} {
		if prev, ok := lines[p.line]; ok {
			return fmt.Errorf("%w: %d used by %s and %s", errPinConflict, p.line, prev, p.name)
		}
		lines[p.line] = p.name
	}

	for pin, name := range pwmPins {
		var line int
		if _, err := fmt.Sscanf(pin, "GPIO%d", &line); err != nil {
			continue
		}
		if prev, ok := lines[line]; ok {
			return fmt.Errorf("%w: %d used by %s and %s", errPinConflict, line, prev, name)
		}
	}
	return nil
}
