// Package main is the xnotctl command line client for the xnotid daemon.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	xdbus "github.com/xnotid/xnotid/internal/dbus"
)

// Build-time variables (set via ldflags).
var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:     "xnotctl",
	Short:   "Control and inspect the xnotid notification daemon",
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// notificationsObject returns the daemon's freedesktop notification object.
func notificationsObject() (dbus.BusObject, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connecting to session bus: %w", err)
	}
	return conn.Object(xdbus.BusName, dbus.ObjectPath(xdbus.Path)), nil
}

// controlObject returns the daemon's xnotid control object.
func controlObject() (dbus.BusObject, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connecting to session bus: %w", err)
	}
	return conn.Object(xdbus.ControlBusName, dbus.ObjectPath(xdbus.ControlPath)), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
