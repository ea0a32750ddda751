package dbus

import (
	"fmt"
	"time"
)

// EmitNotificationClosed emits the NotificationClosed signal with the
// protocol's numeric reason code.
func (s *NotificationServer) EmitNotificationClosed(id uint32, reason uint32) error {
	if s.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}
	if err := s.conn.Emit(Path, Interface+".NotificationClosed", id, reason); err != nil {
		return fmt.Errorf("failed to emit NotificationClosed signal: %w", err)
	}
	s.logger.Debug("emitted NotificationClosed signal", "id", id, "reason", reason)
	return nil
}

// EmitActionInvoked emits the ActionInvoked signal after a user
// activates an action button.
func (s *NotificationServer) EmitActionInvoked(id uint32, actionKey string) error {
	if s.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}
	if err := s.conn.Emit(Path, Interface+".ActionInvoked", id, actionKey); err != nil {
		return fmt.Errorf("failed to emit ActionInvoked signal: %w", err)
	}
	s.logger.Debug("emitted ActionInvoked signal", "id", id, "action_key", actionKey)
	return nil
}

// pumpSignals drains the outbound signal queue at a fixed short
// interval and translates entries into protocol signal emissions.
// Polling bounds signal latency to the interval without blocking the
// connection on an empty queue. Emission failures are logged and
// dropped, never retried.
func (s *NotificationServer) pumpSignals() {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			for _, sig := range s.signals.Drain() {
				s.emit(sig)
			}
		}
	}
}

// emit sends one queued signal, best-effort.
func (s *NotificationServer) emit(sig Signal) {
	var err error
	switch sig.Kind {
	case SignalActionInvoked:
		err = s.EmitActionInvoked(sig.ID, sig.ActionKey)
	case SignalNotificationClosed:
		err = s.EmitNotificationClosed(sig.ID, uint32(sig.Reason))
	default:
		s.logger.Warn("unknown outbound signal kind", "kind", int(sig.Kind))
		return
	}
	if err != nil {
		s.logger.Warn("failed to emit signal", "id", sig.ID, "error", err)
	}
}
