package uds

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func startServer(t *testing.T, register func(*Server)) (string, context.CancelFunc) {
	t.Helper()
	sock := filepath.Join(t.TempDir(), "test.sock")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	srv := NewServer(sock, logger)
	if register != nil {
		register(srv)
	}

	ln, err := srv.Listen()
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go srv.Serve(ctx, ln)

	t.Cleanup(func() {
		cancel()
		srv.Shutdown()
	})
	return sock, cancel
}

func dial(t *testing.T, sock string) *Client {
	t.Helper()
	client, err := Dial(sock)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestPingRoundTrip(t *testing.T) {
	sock, _ := startServer(t, func(s *Server) {
		s.Handle(MethodPing, func(_ context.Context, _ Message) (any, error) {
			return PingResponse{Pong: true}, nil
		})
	})
	client := dial(t, sock)

	reqCtx, reqCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer reqCancel()

	resp, err := client.Request(reqCtx, MethodPing, nil)
	if err != nil {
		t.Fatalf("ping request: %v", err)
	}

	var pong PingResponse
	if err := resp.UnmarshalData(&pong); err != nil {
		t.Fatalf("unmarshal pong: %v", err)
	}
	if !pong.Pong {
		t.Error("expected pong=true")
	}
}

func TestReadRoundTrip(t *testing.T) {
	sock, _ := startServer(t, func(s *Server) {
		s.Handle(MethodRead, func(_ context.Context, _ Message) (any, error) {
			return ReadResponse{Text: "a\n\nb"}, nil
		})
	})
	client := dial(t, sock)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	text, err := client.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if text != "a\n\nb" {
		t.Errorf("Read() = %q, want %q", text, "a\n\nb")
	}
}

func TestStatusRoundTrip(t *testing.T) {
	sock, _ := startServer(t, func(s *Server) {
		s.Handle(MethodStatus, func(_ context.Context, _ Message) (any, error) {
			return StatusResponse{State: "streaming", Socket: "obmc-console", Lines: 3, Capacity: 16}, nil
		})
	})
	client := dial(t, sock)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	st, err := client.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.State != "streaming" || st.Lines != 3 || st.Capacity != 16 {
		t.Errorf("unexpected status: %+v", st)
	}
}

func TestUnknownMethod(t *testing.T) {
	sock, _ := startServer(t, nil)
	client := dial(t, sock)

	reqCtx, reqCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer reqCancel()

	_, err := client.Request(reqCtx, "NoSuchMethod", nil)
	if err == nil || !strings.Contains(err.Error(), "unknown method") {
		t.Errorf("expected unknown method error, got %v", err)
	}
}

func TestHandlerError(t *testing.T) {
	sock, _ := startServer(t, func(s *Server) {
		s.Handle(MethodStatus, func(_ context.Context, _ Message) (any, error) {
			return nil, errors.New("not ready")
		})
	})
	client := dial(t, sock)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := client.Status(ctx); err == nil || !strings.Contains(err.Error(), "not ready") {
		t.Errorf("expected handler error, got %v", err)
	}
}

func TestRequestAfterServerShutdown(t *testing.T) {
	sock, cancel := startServer(t, func(s *Server) {
		s.Handle(MethodPing, func(_ context.Context, _ Message) (any, error) {
			return PingResponse{Pong: true}, nil
		})
	})
	client := dial(t, sock)

	ctx, reqCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer reqCancel()
	if _, err := client.Request(ctx, MethodPing, nil); err != nil {
		t.Fatalf("ping: %v", err)
	}

	cancel()
	client.conn.Close()

	if _, err := client.Request(ctx, MethodPing, nil); err == nil {
		t.Error("expected error on closed connection")
	}
}

func TestUnmarshalDataEmpty(t *testing.T) {
	var v ReadResponse
	if err := (Message{Method: MethodRead}).UnmarshalData(&v); err == nil {
		t.Error("expected error for empty payload")
	}
}
