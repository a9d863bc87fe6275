package config

import (
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type ServerConfig struct {
	Port int `toml:"port"`
}

// BackendConfig describes the upstream X-news REST API.
type BackendConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	SessionCookie  string `toml:"session_cookie"` // name of the upstream session cookie
}

type JWTConfig struct {
	Secret string `toml:"secret"` // For JWT signing
}

type SessionConfig struct {
	Path            string `toml:"path"`             // bbolt file backing the session store
	ExpirationHours int    `toml:"expiration_hours"` // session lifetime
	CookieSecure    bool   `toml:"cookie_secure"`
}

type EncryptionConfig struct {
	Key string `toml:"key"` // 32-byte key for sealing upstream credentials
}

type AlertsConfig struct {
	FadeSeconds int `toml:"fade_seconds"` // toast lifetime before fade-out removal
}

type SSLConfig struct {
	Enabled      bool   `toml:"enabled"`
	CertFile     string `toml:"cert_file"`     // Path to fullchain.pem
	KeyFile      string `toml:"key_file"`      // Path to privkey.pem
	Port         int    `toml:"port"`          // HTTPS port (default 443)
	HTTPPort     int    `toml:"http_port"`     // HTTP port for redirect (default 80)
	AutoRedirect bool   `toml:"auto_redirect"` // Redirect HTTP to HTTPS
	Domain       string `toml:"domain"`        // Domain name for HSTS
	HSTSMaxAge   int    `toml:"hsts_max_age"`  // Max age for HSTS in seconds
}

type Config struct {
	Server     ServerConfig     `toml:"server"`
	Backend    BackendConfig    `toml:"backend"`
	JWT        JWTConfig        `toml:"jwt"`
	Session    SessionConfig    `toml:"session"`
	Encryption EncryptionConfig `toml:"encryption"`
	Alerts     AlertsConfig     `toml:"alerts"`
	SSL        SSLConfig        `toml:"ssl"`
}

func LoadConfig(filepath string) (*Config, error) {
	var config Config

	// Set default values
	config.Server.Port = 3000
	config.Backend.TimeoutSeconds = 15
	config.Backend.SessionCookie = "session"
	config.Session.Path = "./data/sessions.db"
	config.Session.ExpirationHours = 24
	config.Alerts.FadeSeconds = 5

	// Default SSL configuration
	config.SSL.Port = 443
	config.SSL.HTTPPort = 80
	config.SSL.HSTSMaxAge = 31536000 // 1 year
	config.SSL.AutoRedirect = true

	// Load config file
	_, err := toml.DecodeFile(filepath, &config)
	if err != nil {
		return nil, err
	}

	if config.Backend.BaseURL == "" {
		return nil, fmt.Errorf("backend base_url is required")
	}
	config.Backend.BaseURL = strings.TrimRight(config.Backend.BaseURL, "/")

	if config.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	// Validate SSL configuration if enabled
	if config.SSL.Enabled {
		if err := config.ValidateSSL(); err != nil {
			return nil, fmt.Errorf("SSL configuration error: %w", err)
		}
	}

	return &config, nil
}

// BackendTimeout returns the upstream request timeout.
func (c *BackendConfig) BackendTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SessionExpiration returns the configured session lifetime.
func (c *SessionConfig) SessionExpiration() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}

// AlertFade returns how long a toast stays visible before fading out.
func (c *AlertsConfig) AlertFade() time.Duration {
	return time.Duration(c.FadeSeconds) * time.Second
}

// ValidateSSL checks if the SSL configuration is valid
func (c *Config) ValidateSSL() error {
	if !c.SSL.Enabled {
		return nil
	}

	if c.SSL.CertFile == "" {
		return fmt.Errorf("SSL certificate file path is required")
	}

	if c.SSL.KeyFile == "" {
		return fmt.Errorf("SSL key file path is required")
	}

	// Try loading the certificates to verify they're valid
	_, err := tls.LoadX509KeyPair(c.SSL.CertFile, c.SSL.KeyFile)
	if err != nil {
		return fmt.Errorf("failed to load SSL certificates: %w", err)
	}

	return nil
}

// GetSecurityHeaders returns a map of security headers based on the configuration
func (c *Config) GetSecurityHeaders() map[string]string {
	headers := make(map[string]string)

	if c.SSL.Enabled {
		// Add HSTS header if SSL is enabled
		if c.SSL.Domain != "" {
			headers["Strict-Transport-Security"] = fmt.Sprintf("max-age=%d; includeSubDomains", c.SSL.HSTSMaxAge)
		}

		// Add other security headers
		headers["X-Content-Type-Options"] = "nosniff"
		headers["X-Frame-Options"] = "SAMEORIGIN"
		headers["X-XSS-Protection"] = "1; mode=block"
		headers["Referrer-Policy"] = "strict-origin-when-cross-origin"
	}

	return headers
}
