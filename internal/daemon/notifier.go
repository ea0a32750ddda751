package daemon

import (
	"log/slog"
	"sync"
	"time"

	godbus "github.com/godbus/dbus/v5"

	"github.com/xnotid/xnotid/internal/dbus"
	"github.com/xnotid/xnotid/internal/model"
)

// internalAppName identifies daemon-originated notifications.
const internalAppName = "xnotid"

// InternalNotifier sends notifications about daemon events (config
// reloads, DND changes) through the normal decode and store path. A
// per-key rate limit prevents notification floods.
type InternalNotifier struct {
	mu     sync.Mutex
	logger *slog.Logger

	notifyFunc func(wire *dbus.WireNotification) uint32

	lastNotifyTime map[string]time.Time
	minInterval    time.Duration
	enabled        bool
}

// NewInternalNotifier creates an InternalNotifier.
func NewInternalNotifier(logger *slog.Logger) *InternalNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &InternalNotifier{
		logger:         logger,
		lastNotifyTime: make(map[string]time.Time),
		minInterval:    5 * time.Second,
		enabled:        true,
	}
}

// SetNotifyFunc sets the injection point, normally the protocol
// server's NotifyInternal.
func (n *InternalNotifier) SetNotifyFunc(fn func(wire *dbus.WireNotification) uint32) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifyFunc = fn
}

// SetEnabled enables or disables internal notifications.
func (n *InternalNotifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// Notify sends an internal notification unless the same key fired
// within the rate-limit window.
func (n *InternalNotifier) Notify(key, summary, body string, urgency model.Urgency) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.enabled {
		return
	}
	if n.notifyFunc == nil {
		n.logger.Debug("internal notification skipped: no handler", "summary", summary)
		return
	}

	if last, ok := n.lastNotifyTime[key]; ok && time.Since(last) < n.minInterval {
		n.logger.Debug("internal notification rate-limited", "key", key, "summary", summary)
		return
	}
	n.lastNotifyTime[key] = time.Now()

	wire := &dbus.WireNotification{
		AppName: internalAppName,
		AppIcon: iconForUrgency(urgency),
		Summary: summary,
		Body:    body,
		Hints: map[string]godbus.Variant{
			"urgency":       godbus.MakeVariant(byte(urgency)),
			"transient":     godbus.MakeVariant(true),
			"desktop-entry": godbus.MakeVariant(internalAppName),
		},
		ExpireTimeout: 5000,
	}

	n.logger.Debug("sending internal notification", "key", key, "summary", summary)
	_ = n.notifyFunc(wire)
}

func iconForUrgency(u model.Urgency) string {
	switch u {
	case model.UrgencyLow:
		return "dialog-information"
	case model.UrgencyCritical:
		return "dialog-error"
	default:
		return "dialog-warning"
	}
}

// NotifyConfigReloaded announces a successful configuration reload.
func (n *InternalNotifier) NotifyConfigReloaded() {
	n.Notify(
		"config-reload",
		"Configuration Reloaded",
		"xnotid configuration has been successfully reloaded.",
		model.UrgencyLow,
	)
}

// NotifyConfigError announces a configuration reload failure.
func (n *InternalNotifier) NotifyConfigError(err error) {
	n.Notify(
		"config-error",
		"Configuration Error",
		"Failed to reload configuration: "+err.Error(),
		model.UrgencyNormal,
	)
}

// NotifyDNDChanged announces a Do Not Disturb state change.
func (n *InternalNotifier) NotifyDNDChanged(enabled bool) {
	var summary, body string
	if enabled {
		summary = "Do Not Disturb Enabled"
		body = "Non-critical notifications will be suppressed."
	} else {
		summary = "Do Not Disturb Disabled"
		body = "Notifications will now be displayed."
	}
	n.Notify("dnd-change", summary, body, model.UrgencyLow)
}
