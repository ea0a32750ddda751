// Package daemon provides the main orchestration for xnotid: the
// presentation-side event loop that drains the bridge queues, owns the
// per-notification expiry timers, and exposes the operations a
// rendering layer calls back into.
package daemon

import (
	"log/slog"
	"sync"
	"time"

	"github.com/xnotid/xnotid/internal/config"
	"github.com/xnotid/xnotid/internal/dbus"
	"github.com/xnotid/xnotid/internal/model"
	"github.com/xnotid/xnotid/internal/store"
)

// Runtime is the host side of the store/IPC boundary. It never blocks
// on the IPC context; all cross-context traffic flows through the two
// bridge queues and the refresh channel.
type Runtime struct {
	store    *store.Store
	commands *dbus.CommandQueue
	signals  *dbus.SignalQueue
	logger   *slog.Logger

	mu  sync.Mutex
	cfg *config.Config

	// Host hooks, all optional. The rendering layer installs these to
	// be driven by the loop; headless operation just logs.
	onToggleCenter func()
	onRefresh      func(replaced []uint32)
	onDNDChanged   func(enabled bool)

	refreshCh chan struct{}
	stopCh    chan struct{}
	doneCh    chan struct{}
	running   bool
}

// New creates a Runtime over the shared store and bridge queues.
func New(cfg *config.Config, st *store.Store, commands *dbus.CommandQueue, signals *dbus.SignalQueue, logger *slog.Logger) *Runtime {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runtime{
		store:     st,
		commands:  commands,
		signals:   signals,
		logger:    logger,
		cfg:       cfg,
		refreshCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// SetToggleCenterHook installs the hook invoked for ToggleCenter
// commands.
func (r *Runtime) SetToggleCenterHook(fn func()) {
	r.mu.Lock()
	r.onToggleCenter = fn
	r.mu.Unlock()
}

// SetRefreshHook installs the hook invoked after any tick on which the
// store changed. The replaced argument carries the ids drained from the
// store's replaced list; those widgets must be rebuilt rather than
// incrementally updated.
func (r *Runtime) SetRefreshHook(fn func(replaced []uint32)) {
	r.mu.Lock()
	r.onRefresh = fn
	r.mu.Unlock()
}

// SetDNDChangedHook installs the hook invoked after the Do Not Disturb
// state flips.
func (r *Runtime) SetDNDChangedHook(fn func(enabled bool)) {
	r.mu.Lock()
	r.onDNDChanged = fn
	r.mu.Unlock()
}

// ScheduleRefresh posts a refresh request onto the loop. Non-blocking
// and safe from any goroutine; it is both the store's change callback
// and the protocol server's refresh scheduler.
func (r *Runtime) ScheduleRefresh() {
	select {
	case r.refreshCh <- struct{}{}:
	default:
	}
}

// ApplyConfig swaps in a new configuration. Timeout changes take effect
// on the next expiry scan; the tick interval is fixed at Start.
func (r *Runtime) ApplyConfig(cfg *config.Config) {
	r.mu.Lock()
	r.cfg = cfg
	r.mu.Unlock()
	r.logger.Info("runtime configuration updated")
}

// Start installs the store change callback and launches the loop.
func (r *Runtime) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	interval := r.cfg.Daemon.RefreshInterval.Duration()
	r.mu.Unlock()

	if interval <= 0 {
		interval = 50 * time.Millisecond
	}

	r.store.SetOnChange(r.ScheduleRefresh)
	go r.run(interval)
}

// Stop halts the loop and waits for it to drain.
func (r *Runtime) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	<-r.doneCh
}

func (r *Runtime) run(interval time.Duration) {
	defer close(r.doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.Tick(time.Now())
		}
	}
}

// Tick runs one presentation refresh cycle: drain the refresh channel,
// drain the replaced-id list, handle pending commands, and expire
// overdue notifications.
func (r *Runtime) Tick(now time.Time) {
	refreshed := false
	select {
	case <-r.refreshCh:
		refreshed = true
	default:
	}

	replaced := r.store.TakeReplacedIDs()

	for _, cmd := range r.commands.Drain() {
		r.handleCommand(cmd)
		refreshed = true
	}

	if r.expireOverdue(now) > 0 {
		refreshed = true
	}

	if refreshed || len(replaced) > 0 {
		r.mu.Lock()
		hook := r.onRefresh
		r.mu.Unlock()
		if hook != nil {
			hook(replaced)
		}
	}
}

// handleCommand dispatches one bridged command.
func (r *Runtime) handleCommand(cmd dbus.Command) {
	switch cmd {
	case dbus.CommandToggleCenter:
		r.mu.Lock()
		hook := r.onToggleCenter
		r.mu.Unlock()
		if hook != nil {
			hook()
		} else {
			r.logger.Debug("toggle-center requested, no presentation hook installed")
		}
	case dbus.CommandToggleDoNotDisturb:
		enabled := r.store.ToggleDoNotDisturb()
		r.logger.Info("do not disturb toggled", "enabled", enabled)
		r.mu.Lock()
		hook := r.onDNDChanged
		r.mu.Unlock()
		if hook != nil {
			hook(enabled)
		}
	default:
		r.logger.Warn("unknown bridge command", "command", cmd.String())
	}
}

// expireOverdue closes every notification whose display deadline has
// passed and queues the NotificationClosed signal for each. Returns the
// number of notifications expired.
func (r *Runtime) expireOverdue(now time.Time) int {
	count := 0
	for _, id := range r.store.OrderedIDs() {
		n, ok := r.store.Get(id)
		if !ok {
			continue
		}
		d := r.displayTimeout(n)
		if d <= 0 {
			continue
		}
		if now.Sub(n.CreatedAt) < d {
			continue
		}
		if removed := r.store.Close(id, model.CloseReasonExpired); removed != nil {
			r.signals.Push(dbus.Signal{
				Kind:   dbus.SignalNotificationClosed,
				ID:     id,
				Reason: model.CloseReasonExpired,
			})
			count++
		}
	}
	return count
}

// displayTimeout resolves the effective display duration for a
// notification: a positive sender timeout wins, zero (or an
// acknowledge-to-dismiss requirement) means persistent, and a negative
// value defers to the configured per-urgency default.
func (r *Runtime) displayTimeout(n *model.Notification) time.Duration {
	if n.AcknowledgeToDismiss {
		return 0
	}
	switch {
	case n.Timeout > 0:
		return time.Duration(n.Timeout) * time.Millisecond
	case n.Timeout == 0:
		return 0
	default:
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.cfg.TimeoutFor(n.Urgency)
	}
}

// InvokeAction reports a user activating an action button: the action
// is audit-logged, the ActionInvoked signal is queued, and the
// notification is dismissed.
func (r *Runtime) InvokeAction(id uint32, actionKey string) {
	r.logger.Info("action invoked", "id", id, "key", actionKey)

	r.store.LogAction(id, actionKey)
	r.signals.Push(dbus.Signal{
		Kind:      dbus.SignalActionInvoked,
		ID:        id,
		ActionKey: actionKey,
	})

	if removed := r.store.Close(id, model.CloseReasonDismissed); removed != nil {
		r.signals.Push(dbus.Signal{
			Kind:   dbus.SignalNotificationClosed,
			ID:     id,
			Reason: model.CloseReasonDismissed,
		})
	}
	r.store.NotifyChange()
}

// Dismiss closes a notification on behalf of the user.
func (r *Runtime) Dismiss(id uint32) {
	if removed := r.store.Close(id, model.CloseReasonDismissed); removed != nil {
		r.signals.Push(dbus.Signal{
			Kind:   dbus.SignalNotificationClosed,
			ID:     id,
			Reason: model.CloseReasonDismissed,
		})
	}
	r.store.NotifyChange()
}

// ClearAll dismisses every active notification, queueing a
// NotificationClosed signal per id.
func (r *Runtime) ClearAll() {
	ids := r.store.OrderedIDs()
	r.store.ClearAll()
	for _, id := range ids {
		r.signals.Push(dbus.Signal{
			Kind:   dbus.SignalNotificationClosed,
			ID:     id,
			Reason: model.CloseReasonDismissed,
		})
	}
	r.store.NotifyChange()
}
