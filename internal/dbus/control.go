package dbus

import (
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/xnotid/xnotid/internal/store"
)

// ControlServer exposes the org.xnotid.Control interface: a minimal
// command surface that forwards presentation-affecting requests onto
// the command bridge. It holds no mutable state of its own; the only
// read it serves is the current Do Not Disturb flag.
type ControlServer struct {
	store    *store.Store
	commands *CommandQueue
	logger   *slog.Logger
}

// NewControlServer creates a ControlServer forwarding onto the given
// command queue.
func NewControlServer(st *store.Store, commands *CommandQueue, logger *slog.Logger) *ControlServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ControlServer{store: st, commands: commands, logger: logger}
}

// ToggleCenter requests toggling the notification center visibility.
// D-Bus method: ToggleCenter()
func (c *ControlServer) ToggleCenter() *dbus.Error {
	c.logger.Info("ToggleCenter requested via D-Bus")
	c.commands.Push(CommandToggleCenter)
	return nil
}

// ToggleDoNotDisturb requests flipping the Do Not Disturb state. The
// flip itself happens on the presentation loop so DND changes are
// serialized with the refresh cycle.
// D-Bus method: ToggleDoNotDisturb()
func (c *ControlServer) ToggleDoNotDisturb() *dbus.Error {
	c.logger.Info("ToggleDoNotDisturb requested via D-Bus")
	c.commands.Push(CommandToggleDoNotDisturb)
	return nil
}

// GetDoNotDisturb returns the current Do Not Disturb state.
// D-Bus method: GetDoNotDisturb() -> b
func (c *ControlServer) GetDoNotDisturb() (bool, *dbus.Error) {
	return c.store.DoNotDisturb(), nil
}

// export publishes the control object and its introspection data.
func (c *ControlServer) export(conn *dbus.Conn) error {
	if err := conn.Export(c, ControlPath, ControlInterface); err != nil {
		return fmt.Errorf("failed to export control object: %w", err)
	}
	node := &introspect.Node{
		Name: ControlPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    ControlInterface,
				Methods: controlMethods(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), ControlPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export control introspectable: %w", err)
	}
	return nil
}

// controlMethods returns the control interface introspection data.
func controlMethods() []introspect.Method {
	return []introspect.Method{
		{Name: "ToggleCenter"},
		{Name: "ToggleDoNotDisturb"},
		{
			Name: "GetDoNotDisturb",
			Args: []introspect.Arg{
				{Name: "enabled", Type: "b", Direction: "out"},
			},
		},
	}
}
