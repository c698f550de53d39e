package daemon

import (
	"context"
	"net"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/modoterra/conlog/pkg/console"
	"github.com/modoterra/conlog/pkg/core"
	"github.com/modoterra/conlog/pkg/linebuf"
)

func TestBackoff(t *testing.T) {
	tests := []struct {
		failures int
		want     time.Duration
	}{
		{0, 1 * time.Second},
		{1, 1 * time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 16 * time.Second},
		{6, 30 * time.Second},
		{10, 30 * time.Second},
		{64, 30 * time.Second},
	}
	for _, tt := range tests {
		got := backoff(tt.failures, DefaultInitialDelay, DefaultMaxDelay)
		if got != tt.want {
			t.Errorf("backoff(%d) = %v, want %v", tt.failures, got, tt.want)
		}
	}
}

func TestSupervisorReconnects(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "console.sock")
	ln, err := net.Listen("unix", sock)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go func() {
		first, err := ln.Accept()
		if err != nil {
			return
		}
		first.Write([]byte("one\n"))
		first.Close()

		second, err := ln.Accept()
		if err != nil {
			return
		}
		defer second.Close()
		second.Write([]byte("two\n"))
		time.Sleep(5 * time.Second)
	}()

	buf := linebuf.New(linebuf.DefaultCapacity)
	src := console.NewSource(sock, time.Second, buf, testLogger())
	sup := NewSupervisor(src, core.ReconnectAlways, 10*time.Millisecond, 50*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(done)
	}()

	for i := 0; i < 200 && len(buf.Snapshot()) < 2; i++ {
		time.Sleep(10 * time.Millisecond)
	}
	if got := buf.Snapshot(); !reflect.DeepEqual(got, []string{"one", "two"}) {
		t.Fatalf("Snapshot() = %q, want [one two]", got)
	}

	st := sup.State()
	if st.State != core.StateStreaming {
		t.Errorf("state = %s, want streaming", st.State)
	}
	if st.Connects != 1 {
		t.Errorf("connects = %d, want 1 completed connection", st.Connects)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not stop after cancel")
	}
	if st := sup.State(); st.State != core.StateDisconnected {
		t.Errorf("state after cancel = %s, want disconnected", st.State)
	}
}

func TestSupervisorNeverPolicyStops(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "missing.sock")
	buf := linebuf.New(linebuf.DefaultCapacity)
	src := console.NewSource(sock, time.Second, buf, testLogger())
	sup := NewSupervisor(src, core.ReconnectNever, 0, 0, testLogger())

	done := make(chan struct{})
	go func() {
		sup.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor should stop after one attempt")
	}

	st := sup.State()
	if st.State != core.StateClosed {
		t.Errorf("state = %s, want closed", st.State)
	}
	if st.Failures != 1 {
		t.Errorf("failures = %d, want 1", st.Failures)
	}
	if !strings.Contains(st.LastError, "console connect failed") {
		t.Errorf("last error = %q", st.LastError)
	}
}

func TestSupervisorRetriesMissingSocket(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "late.sock")
	buf := linebuf.New(linebuf.DefaultCapacity)
	src := console.NewSource(sock, time.Second, buf, testLogger())
	sup := NewSupervisor(src, core.ReconnectAlways, 10*time.Millisecond, 20*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sup.Run(ctx)

	time.Sleep(60 * time.Millisecond)

	ln, err := net.Listen("unix", sock)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		conn.Write([]byte("late\n"))
		time.Sleep(time.Second)
	}()

	for i := 0; i < 200 && len(buf.Snapshot()) == 0; i++ {
		time.Sleep(10 * time.Millisecond)
	}
	if got := buf.Snapshot(); !reflect.DeepEqual(got, []string{"late"}) {
		t.Errorf("Snapshot() = %q, want [late]", got)
	}
}
