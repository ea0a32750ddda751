// Package dbus implements the org.freedesktop.Notifications D-Bus
// interface and the org.xnotid.Control companion interface, bridging
// both onto the notification store.
package dbus

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/xnotid/xnotid/internal/model"
	"github.com/xnotid/xnotid/internal/store"
)

const (
	// Interface is the notification interface name.
	Interface = "org.freedesktop.Notifications"
	// Path is the notification object path.
	Path = "/org/freedesktop/Notifications"
	// BusName is the bus name to claim.
	BusName = "org.freedesktop.Notifications"

	// ControlInterface is the xnotid control interface name.
	ControlInterface = "org.xnotid.Control"
	// ControlPath is the control object path.
	ControlPath = "/org/xnotid/Control"
	// ControlBusName is the control bus name to claim.
	ControlBusName = "org.xnotid.Control"
)

// defaultSignalPollInterval bounds outbound signal latency.
const defaultSignalPollInterval = 50 * time.Millisecond

// NotificationServer binds the store to the IPC surface. It runs on the
// D-Bus connection's own goroutines; handlers take the store lock only
// for the duration of the synchronous mutation and never block on the
// presentation side.
type NotificationServer struct {
	conn    *dbus.Conn
	store   *store.Store
	signals *SignalQueue
	logger  *slog.Logger

	// scheduleRefresh posts a refresh request onto the presentation
	// loop's own scheduling primitive instead of invoking the change
	// callback synchronously from the IPC goroutine.
	scheduleRefresh func()

	pollInterval time.Duration

	mu         sync.Mutex
	serverInfo ServerInfo
	running    bool
	stopCh     chan struct{}
}

// NewNotificationServer creates a NotificationServer over the given
// store and outbound signal queue.
func NewNotificationServer(st *store.Store, signals *SignalQueue, logger *slog.Logger) *NotificationServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationServer{
		store:        st,
		signals:      signals,
		logger:       logger,
		serverInfo:   DefaultServerInfo(),
		pollInterval: defaultSignalPollInterval,
		stopCh:       make(chan struct{}),
	}
}

// SetServerInfo sets the identity returned by GetServerInformation.
func (s *NotificationServer) SetServerInfo(info ServerInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serverInfo = info
}

// SetRefreshScheduler installs the host hook used to schedule a change
// notification on the presentation loop after a Notify.
func (s *NotificationServer) SetRefreshScheduler(fn func()) {
	s.scheduleRefresh = fn
}

// SetSignalPollInterval overrides the outbound signal drain interval.
func (s *NotificationServer) SetSignalPollInterval(d time.Duration) {
	if d > 0 {
		s.pollInterval = d
	}
}

// Start connects to the session bus, exports the notification and
// control objects, claims both bus names, and starts the outbound
// signal pump. A bind failure here is the one error path that is fatal
// to the process.
func (s *NotificationServer) Start(control *ControlServer) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.mu.Unlock()

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	s.conn = conn

	if err := conn.Export(s, Path, Interface); err != nil {
		return fmt.Errorf("failed to export notification object: %w", err)
	}
	node := &introspect.Node{
		Name: Path,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    Interface,
				Methods: notificationMethods(),
				Signals: notificationSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), Path,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	if control != nil {
		if err := control.export(conn); err != nil {
			return err
		}
	}

	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue|dbus.NameFlagReplaceExisting)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", BusName)
	}

	if control != nil {
		reply, err = conn.RequestName(ControlBusName, dbus.NameFlagDoNotQueue|dbus.NameFlagReplaceExisting)
		if err != nil {
			return fmt.Errorf("failed to request control bus name: %w", err)
		}
		if reply != dbus.RequestNameReplyPrimaryOwner {
			return fmt.Errorf("bus name %s already taken", ControlBusName)
		}
	}

	s.mu.Lock()
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	go s.pumpSignals()

	s.logger.Info("D-Bus notification server started", "interface", Interface, "path", Path)
	return nil
}

// Stop releases the bus names and halts the signal pump. The session
// bus connection itself is shared and stays open.
func (s *NotificationServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	close(s.stopCh)
	s.running = false

	if s.conn != nil {
		if _, err := s.conn.ReleaseName(ControlBusName); err != nil {
			s.logger.Warn("failed to release control bus name", "error", err)
		}
		if _, err := s.conn.ReleaseName(BusName); err != nil {
			s.logger.Warn("failed to release bus name", "error", err)
		}
	}

	s.logger.Info("D-Bus notification server stopped")
	return nil
}

// GetCapabilities returns the capabilities supported by this server.
// D-Bus method: GetCapabilities() -> as
func (s *NotificationServer) GetCapabilities() ([]string, *dbus.Error) {
	s.logger.Debug("GetCapabilities called")
	return ServerCapabilities, nil
}

// GetServerInformation returns the server identity.
// D-Bus method: GetServerInformation() -> (ssss)
func (s *NotificationServer) GetServerInformation() (string, string, string, string, *dbus.Error) {
	s.mu.Lock()
	info := s.serverInfo
	s.mu.Unlock()
	s.logger.Debug("GetServerInformation called")
	return info.Name, info.Vendor, info.Version, info.SpecVersion, nil
}

// Notify handles an incoming notification request. The payload is
// decoded fail-soft, so a syntactically valid call always yields a
// stored notification and a valid id, never an error.
// D-Bus method: Notify(susssasa{sv}i) -> u
func (s *NotificationServer) Notify(
	appName string,
	replacesID uint32,
	appIcon string,
	summary string,
	body string,
	actions []string,
	hints map[string]dbus.Variant,
	expireTimeout int32,
) (uint32, *dbus.Error) {
	wire := &WireNotification{
		AppName:       appName,
		ReplacesID:    replacesID,
		AppIcon:       appIcon,
		Summary:       summary,
		Body:          body,
		Actions:       actions,
		Hints:         hints,
		ExpireTimeout: expireTimeout,
	}

	n := Decode(wire)
	id := s.store.Add(n, replacesID)

	s.logger.Debug("Notify called",
		"app_name", appName,
		"replaces_id", replacesID,
		"summary", summary,
		"id", id,
	)

	if s.scheduleRefresh != nil {
		s.scheduleRefresh()
	} else {
		s.store.NotifyChange()
	}

	return id, nil
}

// NotifyInternal injects a daemon-originated notification through the
// normal decode and store path without a D-Bus round trip.
func (s *NotificationServer) NotifyInternal(wire *WireNotification) uint32 {
	n := Decode(wire)
	id := s.store.Add(n, 0)

	s.logger.Debug("NotifyInternal called", "app_name", wire.AppName, "summary", wire.Summary, "id", id)

	if s.scheduleRefresh != nil {
		s.scheduleRefresh()
	} else {
		s.store.NotifyChange()
	}
	return id
}

// CloseNotification closes a notification by id with reason Closed and
// queues the NotificationClosed signal. Closing an unknown id is a
// no-op, not an error.
// D-Bus method: CloseNotification(u)
func (s *NotificationServer) CloseNotification(id uint32) *dbus.Error {
	s.logger.Debug("CloseNotification called", "id", id)

	if removed := s.store.Close(id, model.CloseReasonClosed); removed != nil {
		s.signals.Push(Signal{
			Kind:   SignalNotificationClosed,
			ID:     id,
			Reason: model.CloseReasonClosed,
		})
	}
	s.store.NotifyChange()
	return nil
}

// notificationMethods returns the D-Bus method introspection data.
func notificationMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "GetCapabilities",
			Args: []introspect.Arg{
				{Name: "capabilities", Type: "as", Direction: "out"},
			},
		},
		{
			Name: "GetServerInformation",
			Args: []introspect.Arg{
				{Name: "name", Type: "s", Direction: "out"},
				{Name: "vendor", Type: "s", Direction: "out"},
				{Name: "version", Type: "s", Direction: "out"},
				{Name: "spec_version", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "Notify",
			Args: []introspect.Arg{
				{Name: "app_name", Type: "s", Direction: "in"},
				{Name: "replaces_id", Type: "u", Direction: "in"},
				{Name: "app_icon", Type: "s", Direction: "in"},
				{Name: "summary", Type: "s", Direction: "in"},
				{Name: "body", Type: "s", Direction: "in"},
				{Name: "actions", Type: "as", Direction: "in"},
				{Name: "hints", Type: "a{sv}", Direction: "in"},
				{Name: "expire_timeout", Type: "i", Direction: "in"},
				{Name: "id", Type: "u", Direction: "out"},
			},
		},
		{
			Name: "CloseNotification",
			Args: []introspect.Arg{
				{Name: "id", Type: "u", Direction: "in"},
			},
		},
	}
}

// notificationSignals returns the D-Bus signal introspection data.
func notificationSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: "NotificationClosed",
			Args: []introspect.Arg{
				{Name: "id", Type: "u"},
				{Name: "reason", Type: "u"},
			},
		},
		{
			Name: "ActionInvoked",
			Args: []introspect.Arg{
				{Name: "id", Type: "u"},
				{Name: "action_key", Type: "s"},
			},
		},
	}
}
