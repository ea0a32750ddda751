package dbus

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xnotid/xnotid/internal/model"
)

func TestDecode_Basic(t *testing.T) {
	w := &WireNotification{
		AppName:       "mail",
		AppIcon:       "mail-unread",
		Summary:       "New message",
		Body:          "You have mail",
		Actions:       []string{"default", "Open"},
		ExpireTimeout: 2500,
		Hints: map[string]dbus.Variant{
			"urgency": dbus.MakeVariant(byte(0)),
			"x-group": dbus.MakeVariant("inbox"),
		},
	}

	n := Decode(w)
	assert.Equal(t, uint32(0), n.ID)
	assert.NotEmpty(t, n.CorrelationID)
	assert.Equal(t, "mail", n.AppName)
	assert.Equal(t, "New message", n.Summary)
	assert.Equal(t, "You have mail", n.Body)
	assert.Equal(t, model.UrgencyLow, n.Urgency)
	assert.Equal(t, int32(2500), n.Timeout)
	assert.Equal(t, "inbox", n.Group)
	assert.False(t, n.AcknowledgeToDismiss)
	assert.Nil(t, n.Card)
	assert.False(t, n.CreatedAt.IsZero())
	require.Len(t, n.Actions, 1)
	assert.Equal(t, "default", n.Actions[0].Key)
}

func TestDecode_CardForcesAcknowledge(t *testing.T) {
	w := &WireNotification{
		Summary: "Permission",
		Body:    `{"xnotid_card":"v1","type":"permission","question":"Allow microphone?"}`,
	}

	n := Decode(w)
	require.NotNil(t, n.Card)
	assert.Equal(t, model.CardPermission, n.Card.Type)
	assert.True(t, n.AcknowledgeToDismiss)
}

func TestDecode_AcknowledgeHint(t *testing.T) {
	w := &WireNotification{
		Summary: "Sticky",
		Body:    "plain body",
		Hints:   map[string]dbus.Variant{"x-acknowledge": dbus.MakeVariant(true)},
	}

	n := Decode(w)
	assert.Nil(t, n.Card)
	assert.True(t, n.AcknowledgeToDismiss)
}

func TestDecode_TotalOnGarbageHints(t *testing.T) {
	// Every hint mistyped; decoding must still produce a usable value.
	w := &WireNotification{
		AppName: "hostile",
		Summary: "still works",
		Hints: map[string]dbus.Variant{
			"urgency":    dbus.MakeVariant("loud"),
			"x-group":    dbus.MakeVariant(int32(3)),
			"transient":  dbus.MakeVariant("true"),
			"value":      dbus.MakeVariant(3.14),
			"image-data": dbus.MakeVariant([]interface{}{int32(1)}),
		},
	}

	n := Decode(w)
	assert.Equal(t, model.UrgencyNormal, n.Urgency)
	assert.Empty(t, n.Group)
	assert.False(t, n.Transient)
	assert.Nil(t, n.Progress)
	assert.Equal(t, model.ImageNone, n.Image.Kind)
}

func TestDecode_UniqueCorrelationIDs(t *testing.T) {
	w := &WireNotification{Summary: "x"}
	a := Decode(w)
	b := Decode(w)
	assert.NotEqual(t, a.CorrelationID, b.CorrelationID)
}
