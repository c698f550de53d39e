package config

import (
	"fmt"

	"github.com/modoterra/conlog/pkg/core"
)

// Validate checks the configuration for structural correctness.
func Validate(c *Config) []error {
	var errs []error

	if c.Version != 1 {
		errs = append(errs, fmt.Errorf("version must be 1, got %d", c.Version))
	}

	if c.Console.Socket == "" {
		errs = append(errs, fmt.Errorf("console.socket is required"))
	}
	if c.Console.ConnectTimeout <= 0 {
		errs = append(errs, fmt.Errorf("console.connect_timeout must be positive, got %s", c.Console.ConnectTimeout))
	}

	if _, err := core.ParseReconnectPolicy(c.Reconnect.Policy); err != nil {
		errs = append(errs, fmt.Errorf("reconnect.policy: %w", err))
	}
	if c.Reconnect.InitialDelay <= 0 {
		errs = append(errs, fmt.Errorf("reconnect.initial_delay must be positive, got %s", c.Reconnect.InitialDelay))
	}
	if c.Reconnect.MaxDelay < c.Reconnect.InitialDelay {
		errs = append(errs, fmt.Errorf("reconnect.max_delay (%s) must not be less than initial_delay (%s)", c.Reconnect.MaxDelay, c.Reconnect.InitialDelay))
	}

	switch c.Bus.Type {
	case "system", "session":
		if c.Bus.Name == "" {
			errs = append(errs, fmt.Errorf("bus.name is required for bus type %q", c.Bus.Type))
		}
		if len(c.Bus.Path) == 0 || c.Bus.Path[0] != '/' {
			errs = append(errs, fmt.Errorf("bus.path must be an absolute object path, got %q", c.Bus.Path))
		}
	case "none":
	default:
		errs = append(errs, fmt.Errorf("bus.type must be system, session, or none; got %q", c.Bus.Type))
	}

	if c.Control.Socket == "" {
		errs = append(errs, fmt.Errorf("control.socket is required"))
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be debug, info, warn, or error; got %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json", "journal":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text, json, or journal; got %q", c.Log.Format))
	}

	return errs
}
