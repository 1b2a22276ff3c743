// Copyright (c) 2025-2026 Jetayu
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestDefault_Validates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() must validate, got: %v", err)
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"schemeless backend url", func(c *Config) { c.Backend.URL = "localhost:8000" }, "backend.url"},
		{"zero timeout", func(c *Config) { c.Backend.TimeoutSecs = 0 }, "backend.timeout_secs"},
		{"huge timeout", func(c *Config) { c.Backend.TimeoutSecs = 9999 }, "backend.timeout_secs"},
		{"retries out of range", func(c *Config) { c.Backend.MaxRetries = 11 }, "backend.max_retries"},
		{"bad identity url", func(c *Config) { c.Identity.URL = "://nope" }, "identity.url"},
		{"session duration", func(c *Config) { c.Identity.SessionDurationHours = 48 }, "identity.session_duration_hours"},
		{"retention", func(c *Config) { c.Telemetry.RetentionDays = 0 }, "telemetry.retention_days"},
		{"export format", func(c *Config) { c.Export.Format = "csv" }, "export.format"},
		{"theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name field %s", err, tt.field)
			}
		})
	}
}

func TestSetDefaults_FillsZeroValues(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	if cfg.Backend.URL == "" || cfg.Backend.TimeoutSecs == 0 || cfg.Backend.MaxRetries == 0 {
		t.Errorf("backend defaults not filled: %+v", cfg.Backend)
	}
	if cfg.Export.Format != "markdown" {
		t.Errorf("Export.Format = %q, want markdown", cfg.Export.Format)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("UI.Theme = %q, want dark", cfg.UI.Theme)
	}
}

func TestSetDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{Backend: BackendConfig{URL: "https://api.example.com", TimeoutSecs: 30}}
	cfg.SetDefaults()

	if cfg.Backend.URL != "https://api.example.com" {
		t.Errorf("explicit URL overwritten: %q", cfg.Backend.URL)
	}
	if cfg.Backend.TimeoutSecs != 30 {
		t.Errorf("explicit timeout overwritten: %d", cfg.Backend.TimeoutSecs)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("JETAYU_BACKEND_URL", "https://concierge.example.com")
	t.Setenv("JETAYU_TIMEOUT_SECS", "90")
	t.Setenv("JETAYU_IDENTITY_KEY", "anon-key-from-env")
	t.Setenv("JETAYU_TOTP_SECRET", "JBSWY3DPEHPK3PXP")
	t.Setenv("JETAYU_TELEMETRY", "false")
	t.Setenv("JETAYU_THEME", "light")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Backend.URL != "https://concierge.example.com" {
		t.Errorf("Backend.URL = %q", cfg.Backend.URL)
	}
	if cfg.Backend.TimeoutSecs != 90 {
		t.Errorf("Backend.TimeoutSecs = %d", cfg.Backend.TimeoutSecs)
	}
	if cfg.Identity.AnonKey != "anon-key-from-env" {
		t.Errorf("Identity.AnonKey = %q", cfg.Identity.AnonKey)
	}
	if cfg.Identity.TOTPSecret != "JBSWY3DPEHPK3PXP" {
		t.Errorf("Identity.TOTPSecret = %q", cfg.Identity.TOTPSecret)
	}
	if cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled = true, want disabled via env")
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("UI.Theme = %q", cfg.UI.Theme)
	}
}

func TestApplyEnvOverrides_IgnoresInvalidTimeout(t *testing.T) {
	t.Setenv("JETAYU_TIMEOUT_SECS", "not-a-number")
	cfg := Default()
	cfg.ApplyEnvOverrides()
	if cfg.Backend.TimeoutSecs != 60 {
		t.Errorf("TimeoutSecs = %d, want default kept", cfg.Backend.TimeoutSecs)
	}
}

func TestLoadTOML_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
version = "1.0.0"

[backend]
url = "https://concierge.example.com"
timeout_secs = 45

[ui]
theme = "light"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		t.Fatalf("LoadTOML: %v", err)
	}
	if cfg.Backend.URL != "https://concierge.example.com" || cfg.Backend.TimeoutSecs != 45 {
		t.Errorf("backend = %+v", cfg.Backend)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("theme = %q", cfg.UI.Theme)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Backend.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want default 3", cfg.Backend.MaxRetries)
	}
}

func TestLoadTOML_FixesPermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("version = \"1.0.0\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		t.Fatalf("LoadTOML: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %o, want 0600", perm)
	}
}

func TestLoadJSON_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"backend": {"url": "https://concierge.example.com", "timeout_secs": 45}}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := LoadJSON(cfg, path); err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if cfg.Backend.URL != "https://concierge.example.com" {
		t.Errorf("Backend.URL = %q", cfg.Backend.URL)
	}
}

func TestGetSet_DotNotation(t *testing.T) {
	cfg := Default()

	if err := cfg.Set("backend.url", "https://api.example.com"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := cfg.Get("backend.url")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "https://api.example.com" {
		t.Errorf("Get = %v", got)
	}

	// String input converts to the field type.
	if err := cfg.Set("backend.timeout_secs", "120"); err != nil {
		t.Fatalf("Set int: %v", err)
	}
	if cfg.Backend.TimeoutSecs != 120 {
		t.Errorf("TimeoutSecs = %d", cfg.Backend.TimeoutSecs)
	}

	if err := cfg.Set("telemetry.enabled", "false"); err != nil {
		t.Fatalf("Set bool: %v", err)
	}
	if cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled = true")
	}

	if _, err := cfg.Get("no.such.key"); err == nil {
		t.Error("Get unknown key must error")
	}
	if err := cfg.Set("backend.nope", 1); err == nil {
		t.Error("Set unknown key must error")
	}
}

func TestGetAllKeys_Resolvable(t *testing.T) {
	cfg := Default()
	for _, key := range GetAllKeys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("key %q does not resolve: %v", key, err)
		}
	}
}

func TestString_RedactsCredentials(t *testing.T) {
	cfg := Default()
	cfg.Identity.AnonKey = "sb-publishable-abc123"
	cfg.Identity.TOTPSecret = "JBSWY3DPEHPK3PXP"

	out := cfg.String()
	if strings.Contains(out, "sb-publishable-abc123") || strings.Contains(out, "JBSWY3DPEHPK3PXP") {
		t.Error("String() leaked credentials")
	}
	if !strings.Contains(out, "[REDACTED]") {
		t.Error("String() missing redaction marker")
	}
	// Original is untouched.
	if cfg.Identity.AnonKey != "sb-publishable-abc123" {
		t.Error("String() mutated the config")
	}
}

// TestConfig_ConcurrentAccess tests that Global(), SetGlobal(), and
// ReloadGlobal() can be safely called concurrently.
// Run with: go test -race -v ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	ResetGlobalForTesting()

	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			c := Default()
			c.UI.Theme = "light"
			SetGlobal(c)
		}()

		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}

	wg.Wait()
	ResetGlobalForTesting()
}
