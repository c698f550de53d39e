// Package bus exports the read method on D-Bus.
package bus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

const (
	DefaultName      = "org.openbmc.log.ObmcConsole"
	DefaultPath      = "/org/openbmc/log/obmcConsole"
	DefaultInterface = "org.openbmc.log.ObmcConsole"

	methodRead = "read"
)

// Reader is the operation exported on the bus.
type Reader interface {
	Read() string
}

// Options selects the bus and the names the service is published under.
type Options struct {
	Type      string // system|session
	Name      string
	Path      string
	Interface string
}

func (o Options) withDefaults() Options {
	if o.Type == "" {
		o.Type = "system"
	}
	if o.Name == "" {
		o.Name = DefaultName
	}
	if o.Path == "" {
		o.Path = DefaultPath
	}
	if o.Interface == "" {
		o.Interface = DefaultInterface
	}
	return o
}

// Service owns the bus connection and the exported object.
type Service struct {
	conn   *dbus.Conn
	opts   Options
	logger *slog.Logger
}

// object is what godbus dispatches method calls to. Read is exported on the
// bus as "read".
type object struct {
	reader Reader
	logger *slog.Logger
}

func (o *object) Read() (string, *dbus.Error) {
	s := o.reader.Read()
	o.logger.Debug("read method call", "bytes", len(s))
	return s, nil
}

// Connect opens the selected bus.
func Connect(ctx context.Context, busType string) (*dbus.Conn, error) {
	var (
		conn *dbus.Conn
		err  error
	)
	switch busType {
	case "", "system":
		conn, err = dbus.ConnectSystemBus(dbus.WithContext(ctx))
	case "session":
		conn, err = dbus.ConnectSessionBus(dbus.WithContext(ctx))
	default:
		return nil, fmt.Errorf("unsupported bus type %q", busType)
	}
	if err != nil {
		return nil, fmt.Errorf("connect %s bus: %w", busType, err)
	}
	return conn, nil
}

// Export opens the bus, exports reader and acquires the service name.
func Export(ctx context.Context, reader Reader, opts Options, logger *slog.Logger) (*Service, error) {
	opts = opts.withDefaults()
	conn, err := Connect(ctx, opts.Type)
	if err != nil {
		return nil, err
	}
	svc, err := ExportOn(conn, reader, opts, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return svc, nil
}

// ExportOn exports reader on an existing connection.
func ExportOn(conn *dbus.Conn, reader Reader, opts Options, logger *slog.Logger) (*Service, error) {
	opts = opts.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	path := dbus.ObjectPath(opts.Path)
	if !path.IsValid() {
		return nil, fmt.Errorf("invalid object path %q", opts.Path)
	}

	obj := &object{reader: reader, logger: logger}
	if err := conn.ExportWithMap(obj, map[string]string{"Read": methodRead}, path, opts.Interface); err != nil {
		return nil, fmt.Errorf("export %s: %w", opts.Path, err)
	}
	node := introspect.Node{
		Name: opts.Path,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name: opts.Interface,
				Methods: []introspect.Method{{
					Name: methodRead,
					Args: []introspect.Arg{{Name: "lines", Type: "s", Direction: "out"}},
				}},
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(&node), path, "org.freedesktop.DBus.Introspectable"); err != nil {
		return nil, fmt.Errorf("export introspection: %w", err)
	}

	reply, err := conn.RequestName(opts.Name, dbus.NameFlagDoNotQueue)
	if err != nil {
		return nil, fmt.Errorf("request name %s: %w", opts.Name, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return nil, fmt.Errorf("request name %s: already owned", opts.Name)
	}

	logger.Info("bus service exported", "bus", opts.Type, "name", opts.Name, "path", opts.Path)
	return &Service{conn: conn, opts: opts, logger: logger}, nil
}

// String returns "bus:name", e.g. "system:org.openbmc.log.ObmcConsole".
func (s *Service) String() string {
	return s.opts.Type + ":" + s.opts.Name
}

// Close releases the name and the connection.
func (s *Service) Close() error {
	if _, err := s.conn.ReleaseName(s.opts.Name); err != nil {
		s.logger.Warn("release bus name", "name", s.opts.Name, "err", err)
	}
	return s.conn.Close()
}

// Read calls the read method of a running service.
func Read(ctx context.Context, conn *dbus.Conn, opts Options) (string, error) {
	opts = opts.withDefaults()
	obj := conn.Object(opts.Name, dbus.ObjectPath(opts.Path))
	var text string
	if err := obj.CallWithContext(ctx, opts.Interface+"."+methodRead, 0).Store(&text); err != nil {
		return "", fmt.Errorf("call %s.%s: %w", opts.Interface, methodRead, err)
	}
	return text, nil
}
