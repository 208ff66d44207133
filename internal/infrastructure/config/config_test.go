package config

import (
	"os"
	"path/filepath"
	"testing"
)

const (
	testAccessSecret  = "test-access-secret-at-least-32-chars!"
	testRefreshSecret = "test-refresh-secret-at-least-32-char!"
)

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	configPath := writeTestConfig(t, `
database:
  path: "/tmp/test.db"
  wal_mode: true
  busy_timeout: 5
api:
  host: "127.0.0.1"
  port: 9090
security:
  jwt:
    access_secret: "`+testAccessSecret+`"
    refresh_secret: "`+testRefreshSecret+`"
    access_token_ttl: 30
    refresh_token_ttl: 1440
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want /tmp/test.db", cfg.Database.Path)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d, want 9090", cfg.API.Port)
	}
	if cfg.Security.JWT.AccessTokenTTL != 30 {
		t.Errorf("AccessTokenTTL = %d, want 30", cfg.Security.JWT.AccessTokenTTL)
	}
	// Defaults fill unspecified sections
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want default info", cfg.Logging.Level)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	// Missing file is fine, but defaults carry no secrets so validation
	// must still reject the result.
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() without secrets should fail validation")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := writeTestConfig(t, "invalid: [yaml: content")

	if _, err := Load(configPath); err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	configPath := writeTestConfig(t, `
database:
  path: "/tmp/test.db"
`)

	t.Setenv("BOOKMARKD_DATABASE_PATH", "/tmp/override.db")
	t.Setenv("BOOKMARKD_JWT_ACCESS_SECRET", testAccessSecret)
	t.Setenv("BOOKMARKD_JWT_REFRESH_SECRET", testRefreshSecret)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
	}
	if cfg.Security.JWT.AccessSecret != testAccessSecret {
		t.Error("access secret should come from environment")
	}
}

func TestValidate_Secrets(t *testing.T) {
	base := func() *Config {
		cfg := defaultConfig()
		cfg.Security.JWT.AccessSecret = testAccessSecret
		cfg.Security.JWT.RefreshSecret = testRefreshSecret
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing access secret", func(c *Config) { c.Security.JWT.AccessSecret = "" }, true},
		{"missing refresh secret", func(c *Config) { c.Security.JWT.RefreshSecret = "" }, true},
		{"short access secret", func(c *Config) { c.Security.JWT.AccessSecret = "short" }, true},
		{"identical secrets", func(c *Config) { c.Security.JWT.RefreshSecret = testAccessSecret }, true},
		{"zero access ttl", func(c *Config) { c.Security.JWT.AccessTokenTTL = 0 }, true},
		{"bad port", func(c *Config) { c.API.Port = 0 }, true},
		{"missing db path", func(c *Config) { c.Database.Path = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestTimeoutHelpers(t *testing.T) {
	cfg := defaultConfig()
	if cfg.GetReadTimeout().Seconds() != float64(cfg.API.Timeouts.Read) {
		t.Errorf("GetReadTimeout() = %v, want %ds", cfg.GetReadTimeout(), cfg.API.Timeouts.Read)
	}
	if cfg.GetIdleTimeout().Seconds() != float64(cfg.API.Timeouts.Idle) {
		t.Errorf("GetIdleTimeout() = %v, want %ds", cfg.GetIdleTimeout(), cfg.API.Timeouts.Idle)
	}
}
