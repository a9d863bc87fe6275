package models

import (
	"time"

	"github.com/google/uuid"
)

// Alert variants understood by the layout template.
const (
	AlertDefault     = "default"
	AlertDestructive = "destructive"
	AlertSuccess     = "success"
)

// Alert is a transient toast. It lives until its fade deadline passes or the
// user dismisses it; it is never persisted.
type Alert struct {
	ID            string    `json:"id"`
	Title         string    `json:"title,omitempty"`
	Message       string    `json:"message"`
	Variant       string    `json:"variant"`
	ShouldFadeOut bool      `json:"should_fade_out"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// NewAlert creates an alert that fades out after ttl.
func NewAlert(title, message, variant string, ttl time.Duration) Alert {
	if variant == "" {
		variant = AlertDefault
	}
	return Alert{
		ID:            uuid.New().String(),
		Title:         title,
		Message:       message,
		Variant:       variant,
		ShouldFadeOut: true,
		ExpiresAt:     time.Now().Add(ttl),
	}
}
