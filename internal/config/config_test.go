package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/waabox/repodeck/internal/config"
)

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	content := `
[api]
base_url = "https://dash.example.com/api"
timeout = "30s"

[session]
session_id = "sess123"
csrf_token = "tok456"

[dashboard]
display_limit = 25
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.BaseURL != "https://dash.example.com/api" {
		t.Errorf("expected base URL 'https://dash.example.com/api', got '%s'", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("expected timeout 30s, got %s", cfg.API.Timeout)
	}
	if cfg.Session.SessionID != "sess123" {
		t.Errorf("expected session id 'sess123', got '%s'", cfg.Session.SessionID)
	}
	if cfg.Session.CSRFToken != "tok456" {
		t.Errorf("expected csrf token 'tok456', got '%s'", cfg.Session.CSRFToken)
	}
	if cfg.DisplayLimitOrDefault() != 25 {
		t.Errorf("expected display limit 25, got %d", cfg.DisplayLimitOrDefault())
	}
	if cfg.Session.LoginPath != "/admin/login/" {
		t.Errorf("expected default login path, got '%s'", cfg.Session.LoginPath)
	}
}

func TestLoad_EnvVarsTakePrecedence(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	content := `
[api]
base_url = "https://fromfile.example.com/api"

[session]
session_id = "fromfile"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("REPODECK_API_URL", "https://fromenv.example.com/api")
	t.Setenv("REPODECK_SESSION_ID", "fromenv")
	t.Setenv("REPODECK_DISPLAY_LIMIT", "5")

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.BaseURL != "https://fromenv.example.com/api" {
		t.Errorf("expected env base URL, got '%s'", cfg.API.BaseURL)
	}
	if cfg.Session.SessionID != "fromenv" {
		t.Errorf("expected env session id, got '%s'", cfg.Session.SessionID)
	}
	if cfg.Dashboard.DisplayLimit != 5 {
		t.Errorf("expected env display limit 5, got %d", cfg.Dashboard.DisplayLimit)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("REPODECK_API_URL", "http://127.0.0.1:8000/api")
	cfg, err := config.LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("missing file should not be an error, got: %v", err)
	}
	if cfg.API.BaseURL != "http://127.0.0.1:8000/api" {
		t.Errorf("expected base URL from env, got '%s'", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Errorf("expected default timeout 15s, got %s", cfg.API.Timeout)
	}
	if cfg.DisplayLimitOrDefault() != 10 {
		t.Errorf("expected default display limit 10, got %d", cfg.DisplayLimitOrDefault())
	}
}

func TestValidate_RequiresAbsoluteBaseURL(t *testing.T) {
	cases := map[string]bool{
		"":                          false,
		"/api":                      false,
		"ftp://example.com/api":     false,
		"https://example.com/api":   true,
		"http://127.0.0.1:8000/api": true,
	}
	for baseURL, valid := range cases {
		cfg := config.Config{API: config.APIConfig{BaseURL: baseURL}}
		err := cfg.Validate()
		if valid && err != nil {
			t.Errorf("%q: unexpected error: %v", baseURL, err)
		}
		if !valid && err == nil {
			t.Errorf("%q: expected validation error", baseURL)
		}
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := config.Config{
		API:     config.APIConfig{BaseURL: "https://dash.example.com/api", Timeout: 20 * time.Second},
		Session: config.SessionConfig{SessionID: "abc", LoginPath: "/admin/login/"},
	}

	if err := config.Save(path, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected permissions 0600, got %o", info.Mode().Perm())
	}

	loaded, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.API.BaseURL != cfg.API.BaseURL || loaded.Session.SessionID != "abc" {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestReadFile_IgnoresEnvironment(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	content := `
[api]
base_url = "https://fromfile.example.com/api"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("REPODECK_API_URL", "https://fromenv.example.com/api")

	cfg, err := config.ReadFile(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.BaseURL != "https://fromfile.example.com/api" {
		t.Errorf("expected file base URL, got '%s'", cfg.API.BaseURL)
	}
	if cfg.Dashboard.DisplayLimit != 10 {
		t.Errorf("expected default display limit 10, got %d", cfg.Dashboard.DisplayLimit)
	}
}
