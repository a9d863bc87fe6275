package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
[backend]
base_url = "http://localhost:8000/"

[jwt]
secret = "test-secret"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Fatalf("expected default port 3000, got %d", cfg.Server.Port)
	}
	if cfg.Backend.BaseURL != "http://localhost:8000" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.BackendTimeout() != 15*time.Second {
		t.Fatalf("expected default timeout, got %v", cfg.Backend.BackendTimeout())
	}
	if cfg.Session.SessionExpiration() != 24*time.Hour {
		t.Fatalf("expected default session lifetime, got %v", cfg.Session.SessionExpiration())
	}
	if cfg.Alerts.AlertFade() != 5*time.Second {
		t.Fatalf("expected default alert fade, got %v", cfg.Alerts.AlertFade())
	}
}

func TestLoadConfigRequiresBaseURL(t *testing.T) {
	path := writeConfig(t, `
[jwt]
secret = "test-secret"
`)

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected an error for a missing backend base_url")
	}
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	path := writeConfig(t, `
[backend]
base_url = "http://localhost:8000"
`)

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected an error for a missing jwt secret")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 8080

[backend]
base_url = "https://api.example.com"
timeout_seconds = 3
session_cookie = "xsession"

[jwt]
secret = "test-secret"

[session]
expiration_hours = 2
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Fatalf("expected port override, got %d", cfg.Server.Port)
	}
	if cfg.Backend.SessionCookie != "xsession" {
		t.Fatalf("expected cookie name override, got %q", cfg.Backend.SessionCookie)
	}
	if cfg.Backend.BackendTimeout() != 3*time.Second {
		t.Fatalf("expected timeout override, got %v", cfg.Backend.BackendTimeout())
	}
	if cfg.Session.SessionExpiration() != 2*time.Hour {
		t.Fatalf("expected session lifetime override, got %v", cfg.Session.SessionExpiration())
	}
}
