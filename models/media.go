package models

import "time"

// Media is a registered digest item from the backend media registry.
type Media struct {
	ID        int       `json:"id"`
	MediaName string    `json:"media_name"`
	Owner     string    `json:"media_owner"`
	SizeInMB  float64   `json:"size_in_mb"`
	Summary   string    `json:"summary,omitempty"` // HTML snippet, sanitized before rendering
	CreatedAt time.Time `json:"created_at,omitempty"`
}
