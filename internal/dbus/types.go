package dbus

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/xnotid/xnotid/internal/model"
)

// WireNotification carries the raw parameters of one
// org.freedesktop.Notifications.Notify call, before decoding into the
// domain model. Hint access is fail-soft: a missing or mistyped hint
// degrades to the zero value, never to an error.
type WireNotification struct {
	AppName       string
	ReplacesID    uint32
	AppIcon       string
	Summary       string
	Body          string
	Actions       []string // alternating key, label pairs
	Hints         map[string]dbus.Variant
	ExpireTimeout int32 // -1 = server default, 0 = never expire
}

// hintString returns a string hint, or "" when absent or mistyped.
func (w *WireNotification) hintString(key string) string {
	if v, ok := w.Hints[key]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}

// hintBool returns a bool hint, or false when absent or mistyped.
func (w *WireNotification) hintBool(key string) bool {
	if v, ok := w.Hints[key]; ok {
		if b, ok := v.Value().(bool); ok {
			return b
		}
	}
	return false
}

// ParsedActions converts the flat action list to structured form.
// Pairs are consumed two at a time; a trailing unpaired element is
// dropped, which is a documented protocol leniency.
func (w *WireNotification) ParsedActions() []model.Action {
	actions := make([]model.Action, 0, len(w.Actions)/2)
	for i := 0; i+1 < len(w.Actions); i += 2 {
		actions = append(actions, model.Action{
			Key:   w.Actions[i],
			Label: w.Actions[i+1],
		})
	}
	return actions
}

// Urgency extracts the urgency hint. Absent or mistyped hints, and any
// byte other than 0 or 2, yield UrgencyNormal.
func (w *WireNotification) Urgency() model.Urgency {
	if v, ok := w.Hints["urgency"]; ok {
		if b, ok := v.Value().(byte); ok {
			return model.UrgencyFromByte(b)
		}
	}
	return model.UrgencyNormal
}

// Group extracts the x-group hint.
func (w *WireNotification) Group() string {
	return w.hintString("x-group")
}

// Acknowledge returns true if the x-acknowledge hint requests explicit
// dismissal.
func (w *WireNotification) Acknowledge() bool {
	return w.hintBool("x-acknowledge")
}

// DesktopEntry extracts the desktop-entry hint.
func (w *WireNotification) DesktopEntry() string {
	return w.hintString("desktop-entry")
}

// Transient returns true if the transient hint is set. Transient
// notifications are popup-only and excluded from durable views.
func (w *WireNotification) Transient() bool {
	return w.hintBool("transient")
}

// CSSClass extracts the x-css-class styling override hint.
func (w *WireNotification) CSSClass() string {
	return w.hintString("x-css-class")
}

// Progress extracts the value hint (int32 or uint32), used by senders
// like dunstify for progress bars. Returns nil when absent.
func (w *WireNotification) Progress() *int32 {
	if v, ok := w.Hints["value"]; ok {
		switch val := v.Value().(type) {
		case int32:
			return &val
		case uint32:
			p := int32(val)
			return &p
		}
	}
	return nil
}

// rawImageKeys are the hint keys that may carry raw pixel data, in
// precedence order.
var rawImageKeys = []string{"image-data", "image_data", "icon_data"}

// pathImageKeys are the hint keys that may carry an image path or icon
// name, in precedence order.
var pathImageKeys = []string{"image-path", "image_path"}

// RawImage decodes a raw pixel image hint of D-Bus type (iiibiiay).
// Returns nil when no raw image hint is present or the payload does not
// match the expected shape.
func (w *WireNotification) RawImage() *model.Image {
	for _, key := range rawImageKeys {
		v, ok := w.Hints[key]
		if !ok {
			continue
		}
		if img := decodeRawImage(v); img != nil {
			return img
		}
	}
	return nil
}

// decodeRawImage unpacks the (iiibiiay) struct godbus delivers as a
// []interface{}.
func decodeRawImage(v dbus.Variant) *model.Image {
	fields, ok := v.Value().([]interface{})
	if !ok || len(fields) != 7 {
		return nil
	}
	width, ok := fields[0].(int32)
	if !ok {
		return nil
	}
	height, ok := fields[1].(int32)
	if !ok {
		return nil
	}
	rowstride, ok := fields[2].(int32)
	if !ok {
		return nil
	}
	hasAlpha, ok := fields[3].(bool)
	if !ok {
		return nil
	}
	bitsPerSample, ok := fields[4].(int32)
	if !ok {
		return nil
	}
	channels, ok := fields[5].(int32)
	if !ok {
		return nil
	}
	data, ok := fields[6].([]byte)
	if !ok {
		return nil
	}
	return &model.Image{
		Kind:          model.ImageRaw,
		Width:         width,
		Height:        height,
		Rowstride:     rowstride,
		HasAlpha:      hasAlpha,
		BitsPerSample: bitsPerSample,
		Channels:      channels,
		Data:          data,
	}
}

// Image resolves the notification image with the fixed precedence: raw
// pixel hint, then path-like hint, then the app_icon parameter, then
// none. Path-like values are classified as a filesystem path or a
// themed icon name.
func (w *WireNotification) Image() model.Image {
	if raw := w.RawImage(); raw != nil {
		return *raw
	}
	for _, key := range pathImageKeys {
		if ref := w.hintString(key); ref != "" {
			return model.ClassifyImageRef(ref)
		}
	}
	return model.ClassifyImageRef(w.AppIcon)
}

// consumedHintKeys are excluded from the residual hint snapshot because
// their content is decoded into typed fields.
var consumedHintKeys = map[string]bool{
	"urgency":    true,
	"image-data": true,
	"image_data": true,
	"image-path": true,
	"image_path": true,
	"icon_data":  true,
}

// ResidualHints returns a stringified snapshot of the hints that are
// not consumed into typed fields, for debugging and the audit log.
func (w *WireNotification) ResidualHints() map[string]string {
	hints := make(map[string]string, len(w.Hints))
	for k, v := range w.Hints {
		if consumedHintKeys[k] {
			continue
		}
		hints[k] = fmt.Sprintf("%v", v.Value())
	}
	return hints
}

// ServerCapabilities is the fixed capability set advertised by xnotid.
var ServerCapabilities = []string{
	"body",
	"body-markup",
	"body-images",
	"actions",
	"persistence",
	"icon-static",
}

// ServerInfo is the tuple returned by GetServerInformation.
type ServerInfo struct {
	Name        string
	Vendor      string
	Version     string
	SpecVersion string
}

// DefaultServerInfo returns the server identity xnotid reports.
func DefaultServerInfo() ServerInfo {
	return ServerInfo{
		Name:        "xnotid",
		Vendor:      "xnotid",
		Version:     "0.0.1", // replaced by the build-time version
		SpecVersion: "1.2",
	}
}
