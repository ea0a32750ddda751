package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUrgencyFromByte(t *testing.T) {
	tests := []struct {
		name string
		in   byte
		want Urgency
	}{
		{"low", 0, UrgencyLow},
		{"normal", 1, UrgencyNormal},
		{"critical", 2, UrgencyCritical},
		{"out of range maps to normal", 7, UrgencyNormal},
		{"255 maps to normal", 255, UrgencyNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UrgencyFromByte(tt.in))
		})
	}
}

func TestUrgency_String(t *testing.T) {
	assert.Equal(t, "low", UrgencyLow.String())
	assert.Equal(t, "normal", UrgencyNormal.String())
	assert.Equal(t, "critical", UrgencyCritical.String())
}

func TestCloseReason_String(t *testing.T) {
	assert.Equal(t, "expired", CloseReasonExpired.String())
	assert.Equal(t, "dismissed", CloseReasonDismissed.String())
	assert.Equal(t, "closed", CloseReasonClosed.String())
	assert.Equal(t, "undefined", CloseReasonUndefined.String())
	assert.Equal(t, "undefined", CloseReason(99).String())
}

func TestClassifyImageRef(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want ImageKind
	}{
		{"empty is none", "", ImageNone},
		{"absolute path", "/usr/share/icons/foo.png", ImagePath},
		{"file uri", "file:///tmp/shot.png", ImagePath},
		{"themed icon name", "dialog-information", ImageIconName},
		{"relative path is icon name", "icons/foo.png", ImageIconName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := ClassifyImageRef(tt.ref)
			assert.Equal(t, tt.want, img.Kind)
			if tt.want != ImageNone {
				assert.Equal(t, tt.ref, img.Ref)
			}
		})
	}
}

func TestNewCorrelationID(t *testing.T) {
	a := NewCorrelationID()
	b := NewCorrelationID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 26) // ULID canonical encoding
}
