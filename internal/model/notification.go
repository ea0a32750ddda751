// Package model defines the core notification data structures for xnotid.
package model

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Urgency is the freedesktop notification priority tier.
type Urgency byte

const (
	// UrgencyLow is for informational notifications.
	UrgencyLow Urgency = 0
	// UrgencyNormal is the default urgency.
	UrgencyNormal Urgency = 1
	// UrgencyCritical notifications bypass Do Not Disturb.
	UrgencyCritical Urgency = 2
)

// UrgencyFromByte maps the raw urgency hint byte to an Urgency.
// Any value other than 0 or 2 maps to UrgencyNormal.
func UrgencyFromByte(b byte) Urgency {
	switch b {
	case 0:
		return UrgencyLow
	case 2:
		return UrgencyCritical
	default:
		return UrgencyNormal
	}
}

// String returns the lowercase name of the urgency level.
func (u Urgency) String() string {
	switch u {
	case UrgencyLow:
		return "low"
	case UrgencyCritical:
		return "critical"
	default:
		return "normal"
	}
}

// CloseReason is the reason a notification left the store.
// The numeric values are defined by the freedesktop notification
// specification and travel on the NotificationClosed signal.
type CloseReason uint32

const (
	// CloseReasonExpired indicates the notification timed out.
	CloseReasonExpired CloseReason = 1
	// CloseReasonDismissed indicates the user dismissed the notification.
	CloseReasonDismissed CloseReason = 2
	// CloseReasonClosed indicates a CloseNotification request.
	CloseReasonClosed CloseReason = 3
	// CloseReasonUndefined is the protocol's reserved catch-all.
	CloseReasonUndefined CloseReason = 4
)

// String returns the audit event name for the close reason.
func (r CloseReason) String() string {
	switch r {
	case CloseReasonExpired:
		return "expired"
	case CloseReasonDismissed:
		return "dismissed"
	case CloseReasonClosed:
		return "closed"
	default:
		return "undefined"
	}
}

// Action is a notification action button, parsed from the flat
// alternating (key, label) wire list.
type Action struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// ImageKind discriminates the Image variant.
type ImageKind int

const (
	// ImageNone means no image was supplied.
	ImageNone ImageKind = iota
	// ImageRaw is raw pixel data from an image-data style hint.
	ImageRaw
	// ImagePath is a filesystem path to an image file.
	ImagePath
	// ImageIconName is a themed icon name to be resolved by the renderer.
	ImageIconName
)

// Image is the resolved notification image. Raw pixel fields are valid
// only when Kind is ImageRaw; Ref holds the path or icon name for
// ImagePath and ImageIconName.
type Image struct {
	Kind ImageKind `json:"kind"`

	Width         int32  `json:"width,omitempty"`
	Height        int32  `json:"height,omitempty"`
	Rowstride     int32  `json:"rowstride,omitempty"`
	HasAlpha      bool   `json:"has_alpha,omitempty"`
	BitsPerSample int32  `json:"bits_per_sample,omitempty"`
	Channels      int32  `json:"channels,omitempty"`
	Data          []byte `json:"data,omitempty"`

	Ref string `json:"ref,omitempty"`
}

// ClassifyImageRef classifies a path-like string as a filesystem path or
// a themed icon name. Absolute paths and file:// URIs are paths;
// everything else is an icon name. Theme lookup itself is a renderer
// concern.
func ClassifyImageRef(ref string) Image {
	if ref == "" {
		return Image{Kind: ImageNone}
	}
	if strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, "file://") {
		return Image{Kind: ImagePath, Ref: ref}
	}
	return Image{Kind: ImageIconName, Ref: ref}
}

// Notification is the domain entity held by the store. It is immutable
// after construction; on replace the store swaps the whole value and
// only the identity is carried over.
type Notification struct {
	// ID is assigned by the store. 0 means "not yet stored"; the
	// protocol reserves 0 as the no-replace-target sentinel.
	ID uint32 `json:"id"`
	// CorrelationID ties the lifecycle audit events of one
	// notification together. Generated once, never reused.
	CorrelationID string `json:"correlation_id"`

	AppName string `json:"app_name"`
	AppIcon string `json:"app_icon"`
	Summary string `json:"summary"`
	Body    string `json:"body"`

	Actions []Action `json:"actions,omitempty"`
	Urgency Urgency  `json:"urgency"`

	// Timeout is the raw protocol value: 0 = persistent, negative =
	// caller defers to the server default, positive = milliseconds.
	Timeout int32 `json:"timeout"`

	// Group is an opaque client-supplied key; notifications sharing a
	// group are indexed together for collapsed display. Empty = none.
	Group string `json:"group,omitempty"`

	// AcknowledgeToDismiss marks notifications that require an explicit
	// action click to go away. Always true when a card is present.
	AcknowledgeToDismiss bool `json:"acknowledge_to_dismiss"`

	Image        Image  `json:"image"`
	DesktopEntry string `json:"desktop_entry,omitempty"`
	Transient    bool   `json:"transient,omitempty"`
	Progress     *int32 `json:"progress,omitempty"`
	CSSClass     string `json:"css_class,omitempty"`

	// Card is the structured interactive payload parsed from the body,
	// when the body carries a recognized envelope.
	Card *Card `json:"card,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// Hints is a stringified snapshot of the hints not consumed into
	// typed fields, kept for debugging and the audit log.
	Hints map[string]string `json:"hints,omitempty"`
}

// NewCorrelationID generates a process-unique identifier for audit-log
// correlation.
func NewCorrelationID() string {
	return ulid.Make().String()
}
