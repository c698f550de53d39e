// Package service manages the conlogd systemd user service unit.
package service

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	sdbus "github.com/coreos/go-systemd/v22/dbus"
)

const unitName = "conlogd.service"

// UnitContents returns the systemd unit file contents for the given binary path
// and config file.
func UnitContents(binaryPath, configPath string) string {
	cmdline := binaryPath
	if configPath != "" {
		cmdline += " --config " + configPath
	}
	return fmt.Sprintf(`[Unit]
Description=conlog console line buffer
Documentation=https://github.com/modoterra/conlog

[Service]
Type=notify
ExecStart=%s
Restart=on-failure
RestartSec=5
WatchdogSec=30

[Install]
WantedBy=default.target
`, cmdline)
}

// UnitPath returns the path to the systemd user unit file.
func UnitPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine user config directory: %w", err)
	}
	return filepath.Join(configDir, "systemd", "user", unitName), nil
}

// BinaryPath resolves the absolute path of conlogd on PATH.
func BinaryPath() (string, error) {
	binaryPath, err := exec.LookPath("conlogd")
	if err != nil {
		return "", fmt.Errorf("conlogd not found in PATH: %w", err)
	}
	binaryPath, err = filepath.Abs(binaryPath)
	if err != nil {
		return "", fmt.Errorf("cannot resolve conlogd path: %w", err)
	}
	return binaryPath, nil
}

// Install writes the unit file, reloads systemd, and enables+starts the service.
func Install(ctx context.Context, configPath string) error {
	binaryPath, err := BinaryPath()
	if err != nil {
		return err
	}

	unitPath, err := UnitPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(unitPath), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}

	contents := UnitContents(binaryPath, configPath)
	if err := os.WriteFile(unitPath, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("cannot write unit file: %w", err)
	}

	conn, err := sdbus.NewUserConnectionContext(ctx)
	if err != nil {
		return fmt.Errorf("systemd user bus: %w", err)
	}
	defer conn.Close()

	if err := conn.ReloadContext(ctx); err != nil {
		return fmt.Errorf("daemon-reload: %w", err)
	}
	if _, _, err := conn.EnableUnitFilesContext(ctx, []string{unitName}, false, true); err != nil {
		return fmt.Errorf("enable %s: %w", unitName, err)
	}
	return runJob(ctx, "start", func(ch chan<- string) (int, error) {
		return conn.StartUnitContext(ctx, unitName, "replace", ch)
	})
}

// Uninstall stops+disables the service, removes the unit file, and reloads systemd.
func Uninstall(ctx context.Context) error {
	conn, err := sdbus.NewUserConnectionContext(ctx)
	if err != nil {
		return fmt.Errorf("systemd user bus: %w", err)
	}
	defer conn.Close()

	// Best-effort stop and disable; ignore errors if not running.
	_ = runJob(ctx, "stop", func(ch chan<- string) (int, error) {
		return conn.StopUnitContext(ctx, unitName, "replace", ch)
	})
	_, _ = conn.DisableUnitFilesContext(ctx, []string{unitName}, false)

	unitPath, err := UnitPath()
	if err != nil {
		return err
	}

	if err := os.Remove(unitPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cannot remove unit file: %w", err)
	}

	if err := conn.ReloadContext(ctx); err != nil {
		return fmt.Errorf("daemon-reload: %w", err)
	}
	return nil
}

// Status returns a human-readable status string.
func Status(ctx context.Context, socketPath string) string {
	var lines []string

	// Socket check
	if _, err := os.Stat(socketPath); err == nil {
		lines = append(lines, "socket: active ("+socketPath+")")
	} else {
		lines = append(lines, "socket: inactive ("+socketPath+")")
	}

	// Systemd unit check
	unitPath, err := UnitPath()
	if err == nil {
		if _, statErr := os.Stat(unitPath); statErr == nil {
			lines = append(lines, "systemd user service: "+unitState(ctx))
		} else {
			lines = append(lines, "systemd user service: not installed")
		}
	}

	return strings.Join(lines, "\n")
}

func unitState(ctx context.Context) string {
	conn, err := sdbus.NewUserConnectionContext(ctx)
	if err != nil {
		return "unknown"
	}
	defer conn.Close()

	units, err := conn.ListUnitsByNamesContext(ctx, []string{unitName})
	if err != nil || len(units) == 0 {
		return "unknown"
	}
	u := units[0]
	if u.SubState != "" && u.SubState != u.ActiveState {
		return u.ActiveState + " (" + u.SubState + ")"
	}
	return u.ActiveState
}

func runJob(ctx context.Context, action string, start func(chan<- string) (int, error)) error {
	ch := make(chan string, 1)
	if _, err := start(ch); err != nil {
		return fmt.Errorf("systemd %s %s: %w", action, unitName, err)
	}
	select {
	case result := <-ch:
		if result != "done" {
			return fmt.Errorf("systemd %s %s: job result %q", action, unitName, result)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
