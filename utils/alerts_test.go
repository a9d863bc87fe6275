package utils

import (
	"testing"
	"time"
)

func TestPushAndActive(t *testing.T) {
	m := NewAlertManager(time.Minute)

	a := m.Push("sid", "Saved", "Your changes were saved", "success")
	if a.ID == "" {
		t.Fatal("expected a generated alert ID")
	}

	active := m.Active("sid")
	if len(active) != 1 || active[0].ID != a.ID {
		t.Fatalf("expected the pushed alert to be active, got %+v", active)
	}

	if len(m.Active("other")) != 0 {
		t.Fatal("alerts must be scoped to their session")
	}
}

func TestDismissRemovesOneAlert(t *testing.T) {
	m := NewAlertManager(time.Minute)

	a := m.Push("sid", "", "first", "default")
	b := m.Push("sid", "", "second", "default")

	m.Dismiss("sid", a.ID)

	active := m.Active("sid")
	if len(active) != 1 || active[0].ID != b.ID {
		t.Fatalf("expected only the second alert to remain, got %+v", active)
	}
}

func TestExpiredAlertsAreInactive(t *testing.T) {
	m := NewAlertManager(time.Millisecond)

	m.Push("sid", "", "fleeting", "default")
	time.Sleep(5 * time.Millisecond)

	if got := m.Active("sid"); len(got) != 0 {
		t.Fatalf("expected the alert to expire, got %+v", got)
	}
}

func TestCleanupDropsEmptySessions(t *testing.T) {
	m := NewAlertManager(time.Millisecond)

	m.Push("sid", "", "fleeting", "default")
	time.Sleep(5 * time.Millisecond)

	m.cleanup()

	m.mu.RLock()
	_, exists := m.alerts["sid"]
	m.mu.RUnlock()
	if exists {
		t.Fatal("cleanup should drop sessions with no live alerts")
	}
}
