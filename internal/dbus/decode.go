package dbus

import (
	"time"

	"github.com/xnotid/xnotid/internal/model"
)

// Decode converts a wire notification into the domain model. It is a
// total function: malformed hints and unparseable bodies degrade to
// defaults, so every syntactically valid Notify call produces a
// displayable notification. The ID is left as 0 and assigned by the
// store.
func Decode(w *WireNotification) *model.Notification {
	card := model.ParseCard(w.Body)

	return &model.Notification{
		CorrelationID:        model.NewCorrelationID(),
		AppName:              w.AppName,
		AppIcon:              w.AppIcon,
		Summary:              w.Summary,
		Body:                 w.Body,
		Actions:              w.ParsedActions(),
		Urgency:              w.Urgency(),
		Timeout:              w.ExpireTimeout,
		Group:                w.Group(),
		AcknowledgeToDismiss: w.Acknowledge() || card != nil,
		Image:                w.Image(),
		DesktopEntry:         w.DesktopEntry(),
		Transient:            w.Transient(),
		Progress:             w.Progress(),
		CSSClass:             w.CSSClass(),
		Card:                 card,
		CreatedAt:            time.Now(),
		Hints:                w.ResidualHints(),
	}
}
