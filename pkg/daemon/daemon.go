// Package daemon runs conlogd: the console line source, its reconnect
// supervisor and the transports serving read.
package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/modoterra/conlog/pkg/config"
	"github.com/modoterra/conlog/pkg/console"
	"github.com/modoterra/conlog/pkg/core"
	"github.com/modoterra/conlog/pkg/linebuf"
	"github.com/modoterra/conlog/pkg/logservice"
	"github.com/modoterra/conlog/pkg/transport/bus"
	"github.com/modoterra/conlog/pkg/transport/uds"
)

// Options configures a Daemon.
type Options struct {
	ConsoleSocket  string
	ConnectTimeout time.Duration
	Policy         core.ReconnectPolicy
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	ControlSocket  string
	Bus            bus.Options // Type "none" disables the bus export
}

// OptionsFromConfig maps a validated config onto daemon options.
func OptionsFromConfig(c *config.Config) (Options, error) {
	policy, err := core.ParseReconnectPolicy(c.Reconnect.Policy)
	if err != nil {
		return Options{}, err
	}
	return Options{
		ConsoleSocket:  c.Console.Socket,
		ConnectTimeout: c.Console.ConnectTimeout,
		Policy:         policy,
		InitialDelay:   c.Reconnect.InitialDelay,
		MaxDelay:       c.Reconnect.MaxDelay,
		ControlSocket:  c.Control.Socket,
		Bus: bus.Options{
			Type: c.Bus.Type,
			Name: c.Bus.Name,
			Path: c.Bus.Path,
		},
	}, nil
}

// Daemon is the conlogd process state.
type Daemon struct {
	buffer     *linebuf.Buffer
	service    *logservice.Service
	supervisor *Supervisor
	server     *uds.Server
	busOpts    bus.Options
	bus        *bus.Service
	busLabel   string
	policy     core.ReconnectPolicy
	startedAt  time.Time
	logger     *slog.Logger
}

// New creates a daemon retaining linebuf.DefaultCapacity lines.
func New(opts Options, logger *slog.Logger) *Daemon {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Policy == "" {
		opts.Policy = core.ReconnectAlways
	}
	buf := linebuf.New(linebuf.DefaultCapacity)
	src := console.NewSource(opts.ConsoleSocket, opts.ConnectTimeout, buf, logger)
	d := &Daemon{
		buffer:     buf,
		service:    logservice.New(buf),
		supervisor: NewSupervisor(src, opts.Policy, opts.InitialDelay, opts.MaxDelay, logger),
		server:     uds.NewServer(opts.ControlSocket, logger),
		busOpts:    opts.Bus,
		policy:     opts.Policy,
		logger:     logger,
	}
	d.registerHandlers()
	return d
}

// Run starts the line source and the transports and blocks until ctx is
// cancelled. Only a control socket bind failure is returned as an error.
func (d *Daemon) Run(ctx context.Context) error {
	d.startedAt = time.Now()

	ln, err := d.server.Listen()
	if err != nil {
		return err
	}

	go d.supervisor.Run(ctx)

	if d.busOpts.Type != "none" {
		svc, err := bus.Export(ctx, d.service, d.busOpts, d.logger)
		if err != nil {
			d.logger.Warn("bus export failed; read stays available on the control socket", "err", err)
		} else {
			d.bus = svc
			d.busLabel = svc.String()
		}
	}

	notifyReady(d.logger)
	go runWatchdog(ctx, d.logger)

	err = d.server.Serve(ctx, ln)
	notifyStopping(d.logger)
	return err
}

// Shutdown cleans up resources. Call it once, after Run returns.
func (d *Daemon) Shutdown() {
	if d.bus != nil {
		if err := d.bus.Close(); err != nil {
			d.logger.Warn("bus close", "err", err)
		}
	}
	d.server.Shutdown()
}

func (d *Daemon) registerHandlers() {
	d.server.Handle(uds.MethodPing, d.handlePing)
	d.server.Handle(uds.MethodRead, d.handleRead)
	d.server.Handle(uds.MethodStatus, d.handleStatus)
}

func (d *Daemon) handlePing(_ context.Context, _ uds.Message) (any, error) {
	return uds.PingResponse{Pong: true}, nil
}

func (d *Daemon) handleRead(_ context.Context, _ uds.Message) (any, error) {
	return uds.ReadResponse{Text: d.service.Read()}, nil
}

func (d *Daemon) handleStatus(_ context.Context, _ uds.Message) (any, error) {
	st := d.supervisor.State()
	retained, capacity, total := d.buffer.Stats()
	resp := uds.StatusResponse{
		State:     string(st.State),
		Socket:    d.supervisor.source.SocketPath(),
		Policy:    string(d.policy),
		Lines:     retained,
		Capacity:  capacity,
		Received:  total,
		Connects:  st.Connects,
		Failures:  st.Failures,
		LastError: st.LastError,
		Since:     st.Since,
	}
	resp.Bus = d.busLabel
	if !d.startedAt.IsZero() {
		resp.UptimeSec = uint64(time.Since(d.startedAt).Seconds())
	}
	return resp, nil
}
