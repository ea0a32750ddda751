package daemon

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xnotid/xnotid/internal/dbus"
	"github.com/xnotid/xnotid/internal/model"
)

func TestInternalNotifier_Notify(t *testing.T) {
	n := NewInternalNotifier(nil)

	var sent []*dbus.WireNotification
	n.SetNotifyFunc(func(wire *dbus.WireNotification) uint32 {
		sent = append(sent, wire)
		return uint32(len(sent))
	})

	n.Notify("test-key", "Hello", "body", model.UrgencyLow)
	require.Len(t, sent, 1)
	assert.Equal(t, "xnotid", sent[0].AppName)
	assert.Equal(t, "Hello", sent[0].Summary)
	assert.Equal(t, int32(5000), sent[0].ExpireTimeout)
	assert.Equal(t, model.UrgencyLow, sent[0].Urgency())
	assert.True(t, sent[0].Transient())
}

func TestInternalNotifier_RateLimit(t *testing.T) {
	n := NewInternalNotifier(nil)

	sent := 0
	n.SetNotifyFunc(func(*dbus.WireNotification) uint32 {
		sent++
		return 1
	})

	n.Notify("same-key", "a", "", model.UrgencyLow)
	n.Notify("same-key", "b", "", model.UrgencyLow)
	assert.Equal(t, 1, sent)

	// Distinct keys are limited independently.
	n.Notify("other-key", "c", "", model.UrgencyLow)
	assert.Equal(t, 2, sent)
}

func TestInternalNotifier_Disabled(t *testing.T) {
	n := NewInternalNotifier(nil)

	sent := 0
	n.SetNotifyFunc(func(*dbus.WireNotification) uint32 {
		sent++
		return 1
	})
	n.SetEnabled(false)

	n.NotifyConfigReloaded()
	assert.Equal(t, 0, sent)
}

func TestInternalNotifier_NoHandler(t *testing.T) {
	n := NewInternalNotifier(nil)
	// Must not panic without a notify func installed.
	n.NotifyConfigError(errors.New("boom"))
}

func TestInternalNotifier_DecodesThroughNormalPath(t *testing.T) {
	n := NewInternalNotifier(nil)

	var got *model.Notification
	n.SetNotifyFunc(func(wire *dbus.WireNotification) uint32 {
		got = dbus.Decode(wire)
		return 1
	})

	n.NotifyDNDChanged(true)
	require.NotNil(t, got)
	assert.Equal(t, "Do Not Disturb Enabled", got.Summary)
	assert.True(t, got.Transient)
	assert.Equal(t, model.UrgencyLow, got.Urgency)
	assert.Equal(t, "xnotid", got.DesktopEntry)
}
