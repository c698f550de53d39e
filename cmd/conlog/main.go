package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/modoterra/conlog/internal/buildinfo"
	"github.com/modoterra/conlog/pkg/config"
	"github.com/modoterra/conlog/pkg/daemon/service"
	"github.com/modoterra/conlog/pkg/transport/bus"
	"github.com/modoterra/conlog/pkg/transport/uds"
	tuimodel "github.com/modoterra/conlog/pkg/tui/model"
)

var socketPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "conlog",
	Short:        "Client for the conlogd console tail service",
	Long:         "conlog talks to conlogd, which keeps the most recent console lines in memory and serves them over D-Bus and a control socket.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", config.DefaultControlSocket, "daemon control socket path")

	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serviceCmd)
	rootCmd.AddCommand(versionCmd)
}

func dialDaemon() (*uds.Client, error) {
	client, err := uds.Dial(socketPath)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to daemon at %s: %w", socketPath, err)
	}
	return client, nil
}

// --- Ping ---

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check if daemon is running",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := dialDaemon()
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		resp, err := client.Request(ctx, uds.MethodPing, nil)
		if err != nil {
			return err
		}

		var pong uds.PingResponse
		if err := resp.UnmarshalData(&pong); err != nil {
			return err
		}
		if pong.Pong {
			fmt.Fprintln(cmd.OutOrStdout(), "pong ✓")
		}
		return nil
	},
}

// --- Read ---

var (
	readBus     string
	readBusName string
	readBusPath string
	readJSON    bool
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Print the buffered console lines",
	Long:  "Print the most recent console lines, oldest first. By default the control socket is used; --bus calls the D-Bus read method instead.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var (
			text string
			err  error
		)
		if readBus != "" {
			text, err = readOverBus(ctx)
		} else {
			text, err = readOverSocket(ctx)
		}
		if err != nil {
			return err
		}
		return printText(cmd.OutOrStdout(), text, readJSON)
	},
}

func init() {
	readCmd.Flags().StringVar(&readBus, "bus", "", "call read over D-Bus instead (system|session)")
	readCmd.Flags().StringVar(&readBusName, "bus-name", bus.DefaultName, "D-Bus service name")
	readCmd.Flags().StringVar(&readBusPath, "bus-path", bus.DefaultPath, "D-Bus object path")
	readCmd.Flags().BoolVar(&readJSON, "json", false, "output as JSON")
}

func readOverSocket(ctx context.Context) (string, error) {
	client, err := dialDaemon()
	if err != nil {
		return "", err
	}
	defer client.Close()
	return client.Read(ctx)
}

func readOverBus(ctx context.Context) (string, error) {
	conn, err := bus.Connect(ctx, readBus)
	if err != nil {
		return "", err
	}
	defer conn.Close()
	return bus.Read(ctx, conn, bus.Options{Type: readBus, Name: readBusName, Path: readBusPath})
}

func printText(w io.Writer, text string, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(uds.ReadResponse{Text: text})
	}
	if text == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, text)
	return err
}

// --- Status ---

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the console connection and buffer status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := dialDaemon()
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		st, err := client.Status(ctx)
		if err != nil {
			return err
		}
		return printStatus(cmd.OutOrStdout(), st, statusJSON)
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
}

func printStatus(w io.Writer, st uds.StatusResponse, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}

	fmt.Fprintf(w, "%-10s %s\n", "state", st.State)
	fmt.Fprintf(w, "%-10s %s\n", "console", st.Socket)
	fmt.Fprintf(w, "%-10s %s\n", "policy", st.Policy)
	fmt.Fprintf(w, "%-10s %d/%d\n", "lines", st.Lines, st.Capacity)
	fmt.Fprintf(w, "%-10s %d\n", "received", st.Received)
	fmt.Fprintf(w, "%-10s %d (failures %d)\n", "connects", st.Connects, st.Failures)
	if st.Bus != "" {
		fmt.Fprintf(w, "%-10s %s\n", "bus", st.Bus)
	}
	if st.LastError != "" {
		fmt.Fprintf(w, "%-10s %s\n", "error", st.LastError)
	}
	fmt.Fprintf(w, "%-10s %s\n", "uptime", (time.Duration(st.UptimeSec) * time.Second).String())
	return nil
}

// --- Watch ---

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the buffered console lines in a live viewer",
	RunE: func(_ *cobra.Command, _ []string) error {
		app := tuimodel.New(socketPath, watchInterval)
		p := tea.NewProgram(app, tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", time.Second, "refresh interval")
}

// --- Service ---

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage the conlogd systemd user service",
}

var serviceConfig string

var serviceInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install, enable and start the conlogd user unit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := service.Install(cmd.Context(), serviceConfig); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "installed conlogd.service ✓")
		return nil
	},
}

var serviceUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Stop, disable and remove the conlogd user unit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := service.Uninstall(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "removed conlogd.service ✓")
		return nil
	},
}

var serviceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the unit is installed and the socket is up",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), service.Status(cmd.Context(), socketPath))
	},
}

var serviceUnitCmd = &cobra.Command{
	Use:   "unit",
	Short: "Print the unit file that install would write",
	RunE: func(cmd *cobra.Command, _ []string) error {
		binary, err := service.BinaryPath()
		if err != nil {
			binary = "/usr/local/bin/conlogd"
		}
		fmt.Fprint(cmd.OutOrStdout(), service.UnitContents(binary, serviceConfig))
		return nil
	},
}

func init() {
	serviceCmd.PersistentFlags().StringVar(&serviceConfig, "config", "", "config file passed to conlogd")
	serviceCmd.AddCommand(serviceInstallCmd)
	serviceCmd.AddCommand(serviceUninstallCmd)
	serviceCmd.AddCommand(serviceStatusCmd)
	serviceCmd.AddCommand(serviceUnitCmd)
}

// --- Version ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "conlog %s (%s) built %s\n", buildinfo.Version, buildinfo.Commit, buildinfo.Date)
	},
}
