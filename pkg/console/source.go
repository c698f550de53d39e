// Package console reads a console byte stream from a Unix socket and appends
// each completed line to a line buffer.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/modoterra/conlog/pkg/core"
)

// DefaultSocket is the console socket path used when none is configured.
const DefaultSocket = "obmc-console"

// DefaultConnectTimeout bounds a single connection attempt.
const DefaultConnectTimeout = 5 * time.Second

const readChunk = 4096

var (
	// ErrConnect reports that the console socket could not be opened.
	ErrConnect = errors.New("console connect failed")
	// ErrStreamClosed reports that an established stream ended.
	ErrStreamClosed = errors.New("console stream closed")
)

// Appender receives completed lines.
type Appender interface {
	Append(line string)
}

// StateFunc is told about every connection state transition.
type StateFunc func(core.ConnState)

// Source owns the client side of the console socket.
type Source struct {
	socketPath     string
	connectTimeout time.Duration
	lines          Appender
	logger         *slog.Logger
}

// NewSource creates a line source for socketPath writing into lines.
func NewSource(socketPath string, connectTimeout time.Duration, lines Appender, logger *slog.Logger) *Source {
	if socketPath == "" {
		socketPath = DefaultSocket
	}
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{
		socketPath:     socketPath,
		connectTimeout: connectTimeout,
		lines:          lines,
		logger:         logger,
	}
}

// SocketPath returns the console socket path.
func (s *Source) SocketPath() string { return s.socketPath }

// RunOnce performs one Connecting → Streaming → Closed cycle. streamed reports
// whether the connection was established. The returned error wraps ErrConnect
// or ErrStreamClosed, or is the context error on shutdown.
func (s *Source) RunOnce(ctx context.Context, setState StateFunc) (streamed bool, err error) {
	if setState == nil {
		setState = func(core.ConnState) {}
	}

	setState(core.StateConnecting)
	conn, err := s.connect(ctx)
	if err != nil {
		setState(core.StateClosed)
		return false, err
	}

	setState(core.StateStreaming)
	s.logger.Info("line source running", "socket", s.socketPath)
	err = s.stream(ctx, conn)
	conn.Close()
	setState(core.StateClosed)
	return true, err
}

func (s *Source) connect(ctx context.Context) (net.Conn, error) {
	d := net.Dialer{Timeout: s.connectTimeout}
	conn, err := d.DialContext(ctx, "unix", s.socketPath)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrConnect, s.socketPath, err)
	}
	return conn, nil
}

func (s *Source) stream(ctx context.Context, conn net.Conn) error {
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	splitter := NewSplitter()
	buf := make([]byte, readChunk)
	for {
		n, err := conn.Read(buf)
		for _, line := range splitter.Feed(buf[:n]) {
			s.lines.Append(line)
		}
		if err == nil {
			continue
		}

		if line, ok := splitter.Flush(); ok {
			s.lines.Append(line)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %s", ErrStreamClosed, s.socketPath)
		}
		return fmt.Errorf("%w: %s: %w", ErrStreamClosed, s.socketPath, err)
	}
}
