package utils

import (
	"sync"
	"time"

	"xfront/models"
)

// AlertManager keeps the active toast set per session. Alerts are removed
// when their fade deadline passes or when the user dismisses them.
type AlertManager struct {
	mu     sync.RWMutex
	alerts map[string][]models.Alert // session ID -> active alerts
	ttl    time.Duration
}

// NewAlertManager creates a manager whose alerts fade out after ttl.
func NewAlertManager(ttl time.Duration) *AlertManager {
	m := &AlertManager{
		alerts: make(map[string][]models.Alert),
		ttl:    ttl,
	}

	go m.cleanupLoop()

	return m
}

// TTL returns the configured fade duration.
func (m *AlertManager) TTL() time.Duration {
	return m.ttl
}

// Push queues a new alert for the session and returns it.
func (m *AlertManager) Push(sessionID, title, message, variant string) models.Alert {
	alert := models.NewAlert(title, message, variant, m.ttl)

	m.mu.Lock()
	m.alerts[sessionID] = append(m.alerts[sessionID], alert)
	m.mu.Unlock()

	return alert
}

// Active returns the session's alerts that have not yet expired.
func (m *AlertManager) Active(sessionID string) []models.Alert {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := time.Now()
	var active []models.Alert
	for _, a := range m.alerts[sessionID] {
		if now.Before(a.ExpiresAt) {
			active = append(active, a)
		}
	}
	return active
}

// Dismiss removes one alert immediately.
func (m *AlertManager) Dismiss(sessionID, alertID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.alerts[sessionID]
	kept := current[:0]
	for _, a := range current {
		if a.ID != alertID {
			kept = append(kept, a)
		}
	}
	if len(kept) == 0 {
		delete(m.alerts, sessionID)
		return
	}
	m.alerts[sessionID] = kept
}

func (m *AlertManager) cleanupLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.cleanup()
	}
}

func (m *AlertManager) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for sessionID, alerts := range m.alerts {
		kept := alerts[:0]
		for _, a := range alerts {
			if now.Before(a.ExpiresAt) {
				kept = append(kept, a)
			}
		}
		if len(kept) == 0 {
			delete(m.alerts, sessionID)
			continue
		}
		m.alerts[sessionID] = kept
	}
}
