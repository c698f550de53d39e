package daemon

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/modoterra/conlog/pkg/console"
	"github.com/modoterra/conlog/pkg/core"
)

const (
	DefaultInitialDelay = 1 * time.Second
	DefaultMaxDelay     = 30 * time.Second
)

// SupervisorState is a point-in-time view of the console connection.
type SupervisorState struct {
	State     core.ConnState
	Failures  int
	Connects  uint64
	LastError string
	Since     time.Time
}

// Supervisor drives a console.Source through connect, stream and reconnect.
type Supervisor struct {
	source       *console.Source
	policy       core.ReconnectPolicy
	initialDelay time.Duration
	maxDelay     time.Duration
	logger       *slog.Logger

	mu        sync.Mutex
	state     core.ConnState
	failures  int
	connects  uint64
	lastError string
	since     time.Time
}

// NewSupervisor creates a supervisor for source. Zero delays select the defaults.
func NewSupervisor(source *console.Source, policy core.ReconnectPolicy, initialDelay, maxDelay time.Duration, logger *slog.Logger) *Supervisor {
	if policy == "" {
		policy = core.ReconnectAlways
	}
	if initialDelay <= 0 {
		initialDelay = DefaultInitialDelay
	}
	if maxDelay <= 0 {
		maxDelay = DefaultMaxDelay
	}
	if maxDelay < initialDelay {
		maxDelay = initialDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Supervisor{
		source:       source,
		policy:       policy,
		initialDelay: initialDelay,
		maxDelay:     maxDelay,
		logger:       logger,
		state:        core.StateDisconnected,
		since:        time.Now(),
	}
}

// Run connects and streams until ctx is cancelled, or until the first close
// when the policy is ReconnectNever.
func (s *Supervisor) Run(ctx context.Context) {
	for {
		streamed, err := s.source.RunOnce(ctx, s.setState)
		if ctx.Err() != nil {
			s.setState(core.StateDisconnected)
			return
		}

		s.mu.Lock()
		if streamed {
			s.connects++
			s.failures = 0
		}
		s.failures++
		failures := s.failures
		if err != nil {
			s.lastError = err.Error()
		}
		s.mu.Unlock()

		switch {
		case errors.Is(err, console.ErrConnect):
			s.logger.Warn("console connect failed", "socket", s.source.SocketPath(), "err", err)
		default:
			s.logger.Info("console stream closed", "socket", s.source.SocketPath(), "err", err)
		}

		if s.policy == core.ReconnectNever {
			s.logger.Warn("line source stopped", "socket", s.source.SocketPath(), "policy", s.policy)
			return
		}

		delay := backoff(failures, s.initialDelay, s.maxDelay)
		s.logger.Info("reconnecting", "socket", s.source.SocketPath(), "delay", delay, "attempt", failures)

		t := time.NewTimer(delay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			s.setState(core.StateDisconnected)
			return
		}
	}
}

// State returns the current connection state.
func (s *Supervisor) State() SupervisorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SupervisorState{
		State:     s.state,
		Failures:  s.failures,
		Connects:  s.connects,
		LastError: s.lastError,
		Since:     s.since,
	}
}

func (s *Supervisor) setState(state core.ConnState) {
	s.mu.Lock()
	s.state = state
	s.since = time.Now()
	s.mu.Unlock()
	s.logger.Debug("console state", "socket", s.source.SocketPath(), "state", state)
}

// backoff returns initial * 2^(failures-1), capped at max.
func backoff(failures int, initial, max time.Duration) time.Duration {
	if failures < 1 {
		failures = 1
	}
	if failures > 32 {
		return max
	}
	d := initial << uint(failures-1)
	if d <= 0 || d > max {
		d = max
	}
	return d
}
