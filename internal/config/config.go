package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/mcuadros/go-defaults"
	"github.com/sethvargo/go-envconfig"
)

// APIConfig locates the tracking backend.
type APIConfig struct {
	// BaseURL is the API root, e.g. https://dashboard.example.com/api.
	BaseURL string        `toml:"base_url" env:"REPODECK_API_URL"`
	Timeout time.Duration `toml:"timeout" env:"REPODECK_API_TIMEOUT" default:"15s"`
}

// SessionConfig holds the credentials sent with every backend request.
type SessionConfig struct {
	SessionID string `toml:"session_id" env:"REPODECK_SESSION_ID"`
	CSRFToken string `toml:"csrf_token" env:"REPODECK_CSRF_TOKEN"`
	Username  string `toml:"username" env:"REPODECK_USERNAME"`
	Password  string `toml:"password" env:"REPODECK_PASSWORD"`
	// LoginPath is resolved against the base URL's host.
	LoginPath string `toml:"login_path" env:"REPODECK_LOGIN_PATH" default:"/admin/login/"`
}

// DashboardConfig tunes the terminal dashboard.
type DashboardConfig struct {
	DisplayLimit int    `toml:"display_limit" env:"REPODECK_DISPLAY_LIMIT" default:"10"`
	LogFile      string `toml:"log_file" env:"REPODECK_LOG_FILE"`
}

// Config holds all repodeck configuration.
type Config struct {
	API       APIConfig       `toml:"api"`
	Session   SessionConfig   `toml:"session"`
	Dashboard DashboardConfig `toml:"dashboard"`
	Debug     bool            `toml:"debug" env:"REPODECK_DEBUG"`
}

const defaultDisplayLimit = 10

// DisplayLimitOrDefault returns DisplayLimit if set, otherwise defaultDisplayLimit.
func (c Config) DisplayLimitOrDefault() int {
	if c.Dashboard.DisplayLimit > 0 {
		return c.Dashboard.DisplayLimit
	}
	return defaultDisplayLimit
}

// LogFileOrDefault returns LogFile if set, otherwise a file under the user's state directory.
func (c Config) LogFileOrDefault() string {
	if c.Dashboard.LogFile != "" {
		return c.Dashboard.LogFile
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "repodeck", "repodeck.log")
}

// Validate checks that the backend can be reached with this configuration.
// There is no built-in base URL: it must always be configured.
func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is not set: add it to ~/.config/repodeck/config.toml or set REPODECK_API_URL")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative, got %s", c.API.Timeout)
	}
	return nil
}

// LoadFrom reads configuration from the given TOML file path.
// If the file does not exist, defaults are used without error.
// Variables from a .env file in the working directory are loaded first, and
// environment variables always take precedence over file values:
//   - REPODECK_API_URL      overrides api.base_url
//   - REPODECK_SESSION_ID   overrides session.session_id
//   - REPODECK_CSRF_TOKEN   overrides session.csrf_token
//   - REPODECK_USERNAME / REPODECK_PASSWORD override the login credentials
func LoadFrom(path string) (Config, error) {
	_ = godotenv.Load()

	cfg, err := ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:           &cfg,
		DefaultOverwrite: true,
	}); err != nil {
		return Config{}, fmt.Errorf("reading environment: %w", err)
	}
	return cfg, nil
}

// ReadFile reads the TOML file at path over the built-in defaults, without
// consulting the environment. A missing file yields the defaults.
func ReadFile(path string) (Config, error) {
	var cfg Config
	defaults.SetDefaults(&cfg)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("decoding %s: %w", path, err)
		}
	}
	return cfg, nil
}

// DefaultConfigPath returns the default path for the repodeck config file.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return home + "/.config/repodeck/config.toml"
}

// Save writes cfg to the given TOML file path, creating parent directories as needed.
// Existing file contents are overwritten. Permissions on the written file are 0600.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("opening config file: %w", err)
	}
	if encErr := toml.NewEncoder(f).Encode(cfg); encErr != nil {
		f.Close()
		return encErr
	}
	return f.Close()
}
