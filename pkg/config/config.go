// Package config loads the optional conlogd YAML configuration.
package config

import "time"

// DefaultPath is where conlogd looks for its configuration.
const DefaultPath = "/etc/conlog/conlog.yaml"

// Config represents a conlog.yaml file.
type Config struct {
	Version   int       `yaml:"version"   json:"version"`
	Console   Console   `yaml:"console"   json:"console"`
	Reconnect Reconnect `yaml:"reconnect" json:"reconnect"`
	Bus       Bus       `yaml:"bus"       json:"bus"`
	Control   Control   `yaml:"control"   json:"control"`
	Log       Log       `yaml:"log"       json:"log"`

	FilePath string `yaml:"-" json:"-"`
}

// Console describes the upstream console socket.
type Console struct {
	Socket         string        `yaml:"socket"          json:"socket"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" json:"connect_timeout"`
}

// Reconnect controls what happens after the console connection closes.
type Reconnect struct {
	Policy       string        `yaml:"policy"        json:"policy"` // always|never
	InitialDelay time.Duration `yaml:"initial_delay" json:"initial_delay"`
	MaxDelay     time.Duration `yaml:"max_delay"     json:"max_delay"`
}

// Bus selects the D-Bus connection the read method is exported on.
type Bus struct {
	Type string `yaml:"type" json:"type"` // system|session|none
	Name string `yaml:"name" json:"name"`
	Path string `yaml:"path" json:"path"`
}

// Control is the local NDJSON control socket.
type Control struct {
	Socket string `yaml:"socket" json:"socket"`
}

// Log configures the daemon's own diagnostics.
type Log struct {
	Level  string `yaml:"level"  json:"level"`  // debug|info|warn|error
	Format string `yaml:"format" json:"format"` // text|json|journal
}

// DefaultControlSocket is where conlogd listens for control clients.
const DefaultControlSocket = "/tmp/conlog.sock"

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Version: 1,
		Console: Console{
			Socket:         "obmc-console",
			ConnectTimeout: 5 * time.Second,
		},
		Reconnect: Reconnect{
			Policy:       "always",
			InitialDelay: 1 * time.Second,
			MaxDelay:     30 * time.Second,
		},
		Bus: Bus{
			Type: "system",
			Name: "org.openbmc.log.ObmcConsole",
			Path: "/org/openbmc/log/obmcConsole",
		},
		Control: Control{
			Socket: DefaultControlSocket,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}
