// Package config defines the house-guard deployment settings: pin and
// channel assignments, device paths, broker and HTTP addresses, and loop
// timing. Settings are stored as YAML and may be overridden from the
// environment.
//
// Safety behaviour (thresholds, dwell times, cadences) is not configurable
// and lives in internal/logic.
package config
