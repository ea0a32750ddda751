package model

import "encoding/json"

// CardType discriminates the card payload variants.
type CardType string

const (
	// CardMultipleChoice asks the user to pick one of several choices.
	CardMultipleChoice CardType = "multiple-choice"
	// CardPermission asks the user to allow or deny a single request.
	CardPermission CardType = "permission"
)

// cardMarkerVersion is the only envelope version this daemon accepts.
const cardMarkerVersion = "v1"

// defaultAllowLabel is used when a permission card omits allow_label.
const defaultAllowLabel = "Allow"

// CardChoice is one selectable option of a multiple-choice card.
type CardChoice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Card is a structured interactive payload embedded as JSON in the
// notification body. A notification carrying a card always requires an
// explicit action to dismiss.
type Card struct {
	Type     CardType `json:"type"`
	Question string   `json:"question"`

	// Multiple-choice fields.
	Choices    []CardChoice `json:"choices,omitempty"`
	AllowOther bool         `json:"allow_other,omitempty"`

	// Permission fields.
	AllowLabel string `json:"allow_label,omitempty"`
}

// cardEnvelope is the wire shape: the card fields plus a version marker.
type cardEnvelope struct {
	Marker string `json:"xnotid_card"`
	Card
}

// ParseCard speculatively parses a notification body as a card envelope.
// It returns nil when the body is plain (possibly markup) text: parse
// failure, a marker other than "v1", an unrecognized type, or a missing
// question all yield no card rather than an error.
func ParseCard(body string) *Card {
	var env cardEnvelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return nil
	}
	if env.Marker != cardMarkerVersion || env.Question == "" {
		return nil
	}
	switch env.Type {
	case CardMultipleChoice:
	case CardPermission:
		if env.AllowLabel == "" {
			env.AllowLabel = defaultAllowLabel
		}
	default:
		return nil
	}
	c := env.Card
	return &c
}
