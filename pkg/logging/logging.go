// Package logging builds the daemon's slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/coreos/go-systemd/v22/journal"
)

// Options describes logger construction parameters.
type Options struct {
	Level  string // debug|info|warn|error
	Format string // text|json|journal
	Output io.Writer
}

// New constructs a logger. The journal format falls back to text when the
// journald socket is not available.
func New(opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	hopts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(opts.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(opts.Output, hopts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(opts.Output, hopts)), nil
	case "journal":
		if !journal.Enabled() {
			return slog.New(slog.NewTextHandler(opts.Output, hopts)), nil
		}
		return slog.New(NewJournalHandler(level)), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
}

// ParseLevel maps a level name to a slog.Level. Empty means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log level: unsupported value %q", level)
	}
}
