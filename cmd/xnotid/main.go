// Package main is the entry point for the xnotid notification daemon.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	sdnotify "github.com/coreos/go-systemd/v22/daemon"

	"github.com/xnotid/xnotid/internal/config"
	"github.com/xnotid/xnotid/internal/daemon"
	xdbus "github.com/xnotid/xnotid/internal/dbus"
	"github.com/xnotid/xnotid/internal/store"
)

// Build-time variables (set via ldflags).
var version = "dev"

func main() {
	configPath := flag.String("config", "", "Path to config file (default: $XDG_CONFIG_HOME/xnotid/config.toml)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("xnotid version", version)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	logger.Info("xnotid starting", "version", version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	audit := store.NewAuditLogger(cfg.Log.Enabled, cfg.Log.Path, logger)
	st := store.New(audit, logger)

	commands := xdbus.NewCommandQueue()
	signals := xdbus.NewSignalQueue()

	rt := daemon.New(cfg, st, commands, signals, logger)

	server := xdbus.NewNotificationServer(st, signals, logger)
	server.SetServerInfo(xdbus.ServerInfo{
		Name:        "xnotid",
		Vendor:      "xnotid",
		Version:     version,
		SpecVersion: "1.2",
	})
	server.SetSignalPollInterval(cfg.Daemon.SignalPollInterval.Duration())
	server.SetRefreshScheduler(rt.ScheduleRefresh)

	control := xdbus.NewControlServer(st, commands, logger)

	notifier := daemon.NewInternalNotifier(logger)
	notifier.SetNotifyFunc(server.NotifyInternal)
	rt.SetDNDChangedHook(notifier.NotifyDNDChanged)

	rt.Start()

	// A bind failure is the only error that is fatal past startup.
	if err := server.Start(control); err != nil {
		logger.Error("failed to start D-Bus server", "error", err)
		rt.Stop()
		os.Exit(1)
	}

	watcher, err := config.NewWatcher(*configPath, logger)
	if err != nil {
		logger.Warn("failed to create config watcher", "error", err)
		watcher = nil
	} else {
		watcher.SetReloadCallback(func(newCfg *config.Config) {
			rt.ApplyConfig(newCfg)
			notifier.NotifyConfigReloaded()
		})
		watcher.SetErrorCallback(notifier.NotifyConfigError)
		if err := watcher.Start(); err != nil {
			logger.Warn("failed to start config watcher", "error", err)
		}
	}

	if _, err := sdnotify.SdNotify(false, sdnotify.SdNotifyReady); err != nil {
		logger.Debug("sd_notify ready failed", "error", err)
	}

	logger.Info("xnotid ready",
		"bus_name", xdbus.BusName,
		"control_bus_name", xdbus.ControlBusName,
		"log_enabled", cfg.Log.Enabled,
		"log_path", cfg.Log.Path,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig)

	if _, err := sdnotify.SdNotify(false, sdnotify.SdNotifyStopping); err != nil {
		logger.Debug("sd_notify stopping failed", "error", err)
	}

	if watcher != nil {
		_ = watcher.Stop()
	}
	_ = server.Stop()
	rt.Stop()

	logger.Info("xnotid stopped")
}
