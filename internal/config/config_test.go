// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML and TOML loading, env var expansion, defaults, and validation

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSecret = "config-test-secret-that-is-32-bytes"

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, "api.yaml", `
server:
  http_addr: "0.0.0.0:8080"
  rate_limit: 20
  rate_limit_burst: 40
  shutdown_timeout: "15s"

database:
  driver: sqlite
  path: "./test.db"

auth:
  jwt_secret: "`+testSecret+`"
  token_ttl: "2h"

logging:
  level: "debug"
  format: "json"

metrics:
  enabled: true
  path: "/metrics"

idempotency:
  ttl: "30m"
  max_entries: 500
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPAddr != "0.0.0.0:8080" {
		t.Errorf("Server.HTTPAddr = %q", cfg.Server.HTTPAddr)
	}
	if cfg.Server.RateLimit != 20 || cfg.Server.RateLimitBurst != 40 {
		t.Errorf("rate limit = %v/%d", cfg.Server.RateLimit, cfg.Server.RateLimitBurst)
	}
	if cfg.Server.ShutdownTimeout != 15*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Server.ReadHeaderTimeout != DefaultReadHeaderTimeout {
		t.Errorf("Server.ReadHeaderTimeout = %v, want default", cfg.Server.ReadHeaderTimeout)
	}
	if cfg.Database.Path != "./test.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Auth.TokenTTL != 2*time.Hour {
		t.Errorf("Auth.TokenTTL = %v", cfg.Auth.TokenTTL)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false")
	}
	if cfg.Idempotency.TTL != 30*time.Minute || cfg.Idempotency.MaxEntries != 500 {
		t.Errorf("Idempotency = %+v", cfg.Idempotency)
	}
}

func TestLoad_TOML(t *testing.T) {
	configPath := writeConfig(t, "api.toml", `
[server]
http_addr = ":9090"
rate_limit = 5.0

[database]
driver = "sqlite"
path = ":memory:"

[auth]
jwt_secret = "`+testSecret+`"
token_ttl = "1h"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.HTTPAddr != ":9090" {
		t.Errorf("Server.HTTPAddr = %q", cfg.Server.HTTPAddr)
	}
	if cfg.Server.RateLimitBurst != 5 {
		t.Errorf("RateLimitBurst = %d, want burst defaulted to rate", cfg.Server.RateLimitBurst)
	}
	if cfg.Database.Path != ":memory:" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Auth.TokenTTL != time.Hour {
		t.Errorf("Auth.TokenTTL = %v", cfg.Auth.TokenTTL)
	}
}

func TestLoad_Defaults(t *testing.T) {
	configPath := writeConfig(t, "api.yaml", `
database:
  path: "./test.db"
auth:
  jwt_secret: "`+testSecret+`"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.HTTPAddr != DefaultHTTPAddr {
		t.Errorf("Server.HTTPAddr = %q, want %q", cfg.Server.HTTPAddr, DefaultHTTPAddr)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q", cfg.Database.Driver)
	}
	if cfg.Auth.TokenTTL != DefaultTokenTTL {
		t.Errorf("Auth.TokenTTL = %v", cfg.Auth.TokenTTL)
	}
	if cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("Metrics.Path = %q", cfg.Metrics.Path)
	}
	if cfg.Idempotency.MaxEntries != DefaultIdempotencyMax {
		t.Errorf("Idempotency.MaxEntries = %d", cfg.Idempotency.MaxEntries)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_CAMPUS_SECRET", testSecret)
	t.Setenv("TEST_CAMPUS_ADDR", ":7070")

	configPath := writeConfig(t, "api.yaml", `
server:
  http_addr: "${TEST_CAMPUS_ADDR}"
database:
  path: "./test.db"
auth:
  jwt_secret: "${TEST_CAMPUS_SECRET}"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Auth.JWTSecret != testSecret {
		t.Errorf("JWTSecret = %q, want expanded value", cfg.Auth.JWTSecret)
	}
	if cfg.Server.HTTPAddr != ":7070" {
		t.Errorf("HTTPAddr = %q", cfg.Server.HTTPAddr)
	}
}

func TestLoad_DBPathOverride(t *testing.T) {
	t.Setenv("CAMPUS_DB_PATH", "/tmp/override.db")

	configPath := writeConfig(t, "api.yaml", `
database:
  path: "./test.db"
auth:
  jwt_secret: "`+testSecret+`"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("Database.Path = %q, want override", cfg.Database.Path)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "short secret",
			content: "database:\n  path: ./x.db\nauth:\n  jwt_secret: short\n",
			wantErr: "jwt_secret",
		},
		{
			name:    "missing sqlite path",
			content: "auth:\n  jwt_secret: " + testSecret + "\n",
			wantErr: "database.path",
		},
		{
			name:    "postgres without dsn",
			content: "database:\n  driver: postgres\nauth:\n  jwt_secret: " + testSecret + "\n",
			wantErr: "database.dsn",
		},
		{
			name:    "unknown driver",
			content: "database:\n  driver: mysql\n  path: x\nauth:\n  jwt_secret: " + testSecret + "\n",
			wantErr: "database.driver",
		},
		{
			name:    "bad duration",
			content: "database:\n  path: x\nauth:\n  jwt_secret: " + testSecret + "\n  token_ttl: forever\n",
			wantErr: "token_ttl",
		},
		{
			name:    "tailscale without hostname",
			content: "tailscale:\n  enabled: true\ndatabase:\n  path: x\nauth:\n  jwt_secret: " + testSecret + "\n",
			wantErr: "tailscale.hostname",
		},
		{
			name:    "bad log format",
			content: "database:\n  path: x\nauth:\n  jwt_secret: " + testSecret + "\nlogging:\n  format: xml\n",
			wantErr: "logging.format",
		},
		{
			name:    "invalid yaml",
			content: "server: [unclosed",
			wantErr: "parsing config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "api.yaml", tt.content))
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load() expected error for a missing file")
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("CAMPUS_CONFIG", "/etc/campus/api.yaml")
	if got := DefaultPath(); got != "/etc/campus/api.yaml" {
		t.Errorf("DefaultPath() = %q", got)
	}

	t.Setenv("CAMPUS_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := DefaultPath(); got != filepath.Join("/xdg", "campus", "api.yaml") {
		t.Errorf("DefaultPath() = %q", got)
	}
}
