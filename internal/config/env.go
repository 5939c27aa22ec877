package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Network is the state pi-helper writes to /run/pi-helper.env.
type Network struct {
	Type       string `env:"NETWORK_TYPE"`
	IP         string `env:"NETWORK_IP"`
	Status     string `env:"NETWORK_STATUS"`
	Gateway    string `env:"NETWORK_GATEWAY"`
	WifiStatus string `env:"NETWORK_WIFI_STATUS"`
	SSID       string `env:"NETWORK_WIFI_SSID"`
}

// Overrides are HOUSE_GUARD_* variables applied on top of the file.
type Overrides struct {
	Broker   string `env:"BROKER"`
	HTTPAddr string `env:"HTTP_ADDR"`
	LogLevel string `env:"LOG_LEVEL"`
	Serial   string `env:"SERIAL"`
}

const overridePrefix = "HOUSE_GUARD_"

func parseEnv(target any, opts env.Options) error {
	if err := env.ParseWithOptions(target, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ReadNetwork returns the network state, or false when pi-helper has not
// reported one.
func ReadNetwork() (Network, bool, error) {
	return readNetwork(env.Options{})
}

func readNetwork(opts env.Options) (Network, bool, error) {
	var n Network
	if err := parseEnv(&n, opts); err != nil {
		return Network{}, false, err
	}
	return n, n.Status != "", nil
}

// ApplyEnv overlays HOUSE_GUARD_* variables onto cfg and revalidates it.
func ApplyEnv(cfg *Config) error {
	return applyEnv(cfg, env.Options{})
}

func applyEnv(cfg *Config, opts env.Options) error {
	if cfg == nil {
		return errConfigIsNotSet
	}
	opts.Prefix = overridePrefix

	var o Overrides
	if err := parseEnv(&o, opts); err != nil {
		return err
	}

	if o.Broker != "" {
		cfg.MQTT.Broker = o.Broker
	}
	if o.HTTPAddr != "" {
		cfg.HTTPAddr = o.HTTPAddr
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.Serial != "" {
		cfg.Serial.Device = o.Serial
	}

	return Validate(cfg)
}
