package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modoterra/conlog/internal/buildinfo"
	"github.com/modoterra/conlog/pkg/config"
	"github.com/modoterra/conlog/pkg/daemon"
	"github.com/modoterra/conlog/pkg/logging"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("conlogd %s (%s) built %s\n", buildinfo.Version, buildinfo.Commit, buildinfo.Date)
		return
	}

	configPath := flag.String("config", config.DefaultPath, "path to conlog.yaml")
	consoleSocket := flag.String("console-socket", "", "console socket path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conlogd: %v\n", err)
		os.Exit(1)
	}
	if *consoleSocket != "" {
		cfg.Console.Socket = *consoleSocket
	}
	if errs := config.Validate(cfg); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "conlogd: config: %v\n", e)
		}
		os.Exit(1)
	}

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: os.Stderr})
	if err != nil {
		fmt.Fprintf(os.Stderr, "conlogd: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	opts, err := daemon.OptionsFromConfig(cfg)
	if err != nil {
		logger.Error("invalid config", "err", err)
		os.Exit(1)
	}

	d := daemon.New(opts, logger)
	defer d.Shutdown()

	if cfg.FilePath != "" {
		logger.Info("config loaded", "path", cfg.FilePath)
	} else {
		logger.Info("no config file, using defaults", "path", *configPath)
	}
	logger.Info("starting conlogd", "version", buildinfo.Version, "console", cfg.Console.Socket, "control", cfg.Control.Socket)
	if err := d.Run(ctx); err != nil {
		logger.Error("daemon error", "err", err)
		d.Shutdown()
		os.Exit(1)
	}
}
