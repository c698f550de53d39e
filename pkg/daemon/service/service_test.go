package service

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func TestUnitContents(t *testing.T) {
	got := UnitContents("/usr/local/bin/conlogd", "")

	if !strings.Contains(got, "ExecStart=/usr/local/bin/conlogd\n") {
		t.Error("unit file missing ExecStart with binary path")
	}
	if !strings.Contains(got, "Type=notify") {
		t.Error("unit file missing Type=notify")
	}
	if !strings.Contains(got, "Restart=on-failure") {
		t.Error("unit file missing Restart=on-failure")
	}
	if !strings.Contains(got, "WatchdogSec=") {
		t.Error("unit file missing WatchdogSec")
	}
	if !strings.Contains(got, "[Install]") {
		t.Error("unit file missing [Install] section")
	}
}

func TestUnitContentsWithConfig(t *testing.T) {
	got := UnitContents("/usr/bin/conlogd", "/etc/conlog/conlog.yaml")
	if !strings.Contains(got, "ExecStart=/usr/bin/conlogd --config /etc/conlog/conlog.yaml") {
		t.Errorf("ExecStart should carry the config flag, got:\n%s", got)
	}
}

func TestUnitPath(t *testing.T) {
	path, err := UnitPath()
	if err != nil {
		t.Fatalf("UnitPath() error: %v", err)
	}
	if !strings.HasSuffix(path, "systemd/user/conlogd.service") {
		t.Errorf("UnitPath() = %q, want suffix systemd/user/conlogd.service", path)
	}
}

func TestStatusNoSocket(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	got := Status(ctx, "/tmp/conlog-test-nonexistent.sock")
	if !strings.Contains(got, "socket: inactive") {
		t.Errorf("Status() should report inactive socket, got: %s", got)
	}
}

func TestStatusWithSocket(t *testing.T) {
	// Create a temporary file to simulate a socket
	f, err := os.CreateTemp("", "conlog-test-*.sock")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())
	f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	got := Status(ctx, f.Name())
	if !strings.Contains(got, "socket: active") {
		t.Errorf("Status() should report active socket, got: %s", got)
	}
}
