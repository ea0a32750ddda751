package dbus

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xnotid/xnotid/internal/model"
)

func wireWithHints(hints map[string]dbus.Variant) *WireNotification {
	return &WireNotification{
		AppName: "test-app",
		Summary: "summary",
		Hints:   hints,
	}
}

func TestWireNotification_ParsedActions(t *testing.T) {
	tests := []struct {
		name    string
		actions []string
		want    []model.Action
	}{
		{"nil", nil, []model.Action{}},
		{"one pair", []string{"default", "Open"}, []model.Action{{Key: "default", Label: "Open"}}},
		{
			"two pairs",
			[]string{"yes", "Yes", "no", "No"},
			[]model.Action{{Key: "yes", Label: "Yes"}, {Key: "no", Label: "No"}},
		},
		{"trailing unpaired element dropped", []string{"default", "Open", "orphan"}, []model.Action{{Key: "default", Label: "Open"}}},
		{"single element dropped", []string{"orphan"}, []model.Action{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &WireNotification{Actions: tt.actions}
			assert.Equal(t, tt.want, w.ParsedActions())
		})
	}
}

func TestWireNotification_Urgency(t *testing.T) {
	tests := []struct {
		name  string
		hints map[string]dbus.Variant
		want  model.Urgency
	}{
		{"absent defaults to normal", nil, model.UrgencyNormal},
		{"low", map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(0))}, model.UrgencyLow},
		{"critical", map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(2))}, model.UrgencyCritical},
		{"mistyped string degrades to normal", map[string]dbus.Variant{"urgency": dbus.MakeVariant("critical")}, model.UrgencyNormal},
		{"mistyped int degrades to normal", map[string]dbus.Variant{"urgency": dbus.MakeVariant(int32(2))}, model.UrgencyNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wireWithHints(tt.hints).Urgency())
		})
	}
}

func TestWireNotification_BoolAndStringHints(t *testing.T) {
	w := wireWithHints(map[string]dbus.Variant{
		"x-group":       dbus.MakeVariant("chat"),
		"x-acknowledge": dbus.MakeVariant(true),
		"desktop-entry": dbus.MakeVariant("org.example.App"),
		"transient":     dbus.MakeVariant("yes"), // mistyped
		"x-css-class":   dbus.MakeVariant("warning"),
	})

	assert.Equal(t, "chat", w.Group())
	assert.True(t, w.Acknowledge())
	assert.Equal(t, "org.example.App", w.DesktopEntry())
	assert.False(t, w.Transient())
	assert.Equal(t, "warning", w.CSSClass())
}

func TestWireNotification_Progress(t *testing.T) {
	w := wireWithHints(map[string]dbus.Variant{"value": dbus.MakeVariant(int32(42))})
	require.NotNil(t, w.Progress())
	assert.Equal(t, int32(42), *w.Progress())

	w = wireWithHints(map[string]dbus.Variant{"value": dbus.MakeVariant(uint32(7))})
	require.NotNil(t, w.Progress())
	assert.Equal(t, int32(7), *w.Progress())

	w = wireWithHints(map[string]dbus.Variant{"value": dbus.MakeVariant("42")})
	assert.Nil(t, w.Progress())

	assert.Nil(t, wireWithHints(nil).Progress())
}

func rawImageVariant(width, height int32) dbus.Variant {
	return dbus.MakeVariant([]interface{}{
		width, height, width * 4, true, int32(8), int32(4),
		make([]byte, width*height*4),
	})
}

func TestWireNotification_Image_Precedence(t *testing.T) {
	t.Run("raw wins over path and app icon", func(t *testing.T) {
		w := wireWithHints(map[string]dbus.Variant{
			"image-data": rawImageVariant(2, 2),
			"image-path": dbus.MakeVariant("/tmp/pic.png"),
		})
		w.AppIcon = "dialog-information"

		img := w.Image()
		assert.Equal(t, model.ImageRaw, img.Kind)
		assert.Equal(t, int32(2), img.Width)
	})

	t.Run("icon_data accepted as raw source", func(t *testing.T) {
		w := wireWithHints(map[string]dbus.Variant{"icon_data": rawImageVariant(1, 1)})
		assert.Equal(t, model.ImageRaw, w.Image().Kind)
	})

	t.Run("path wins over app icon", func(t *testing.T) {
		w := wireWithHints(map[string]dbus.Variant{"image-path": dbus.MakeVariant("/tmp/pic.png")})
		w.AppIcon = "dialog-information"

		img := w.Image()
		assert.Equal(t, model.ImagePath, img.Kind)
		assert.Equal(t, "/tmp/pic.png", img.Ref)
	})

	t.Run("app icon classified as icon name", func(t *testing.T) {
		w := wireWithHints(nil)
		w.AppIcon = "dialog-information"

		img := w.Image()
		assert.Equal(t, model.ImageIconName, img.Kind)
		assert.Equal(t, "dialog-information", img.Ref)
	})

	t.Run("file uri app icon classified as path", func(t *testing.T) {
		w := wireWithHints(nil)
		w.AppIcon = "file:///tmp/shot.png"
		assert.Equal(t, model.ImagePath, w.Image().Kind)
	})

	t.Run("nothing yields none", func(t *testing.T) {
		assert.Equal(t, model.ImageNone, wireWithHints(nil).Image().Kind)
	})

	t.Run("malformed raw hint falls through to path", func(t *testing.T) {
		w := wireWithHints(map[string]dbus.Variant{
			"image-data": dbus.MakeVariant("not a struct"),
			"image-path": dbus.MakeVariant("/tmp/pic.png"),
		})
		assert.Equal(t, model.ImagePath, w.Image().Kind)
	})
}

func TestDecodeRawImage_WrongArity(t *testing.T) {
	v := dbus.MakeVariant([]interface{}{int32(1), int32(1)})
	assert.Nil(t, decodeRawImage(v))
}

func TestWireNotification_ResidualHints(t *testing.T) {
	w := wireWithHints(map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(2)),
		"image-path":    dbus.MakeVariant("/tmp/pic.png"),
		"sender-pid":    dbus.MakeVariant(int32(1234)),
		"desktop-entry": dbus.MakeVariant("org.example.App"),
	})

	hints := w.ResidualHints()
	assert.NotContains(t, hints, "urgency")
	assert.NotContains(t, hints, "image-path")
	assert.Equal(t, "1234", hints["sender-pid"])
	assert.Equal(t, "org.example.App", hints["desktop-entry"])
}
