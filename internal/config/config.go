package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/timecalc"
)

// Config is the root configuration for eld, stored in <home>/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	Driver  DriverConfig  `json:"driver"`
	HOS     HOSConfig     `json:"hos"`
	Log     LogConfig     `json:"log"`
	Server  ServerConfig  `json:"server"`
	Outlook OutlookConfig `json:"outlook"`
}

// DriverConfig is the driver profile.
type DriverConfig struct {
	Name         string `json:"name"`
	LicenseNo    string `json:"license_no"`
	LicenseState string `json:"license_state"`
	// TimeZone is the home terminal time zone that defines log days, either an
	// IANA name or a fixed offset such as "UTC-06:00". Empty = UTC.
	TimeZone string `json:"time_zone"`
}

// HOSConfig tunes the hours-of-service engine.
type HOSConfig struct {
	// SeedPolicy decides the status in effect at midnight: "first_entry" or
	// "prior_event".
	SeedPolicy string `json:"seed_policy"`
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// ServerConfig is used by eld serve.
type ServerConfig struct {
	Addr string `json:"addr"`
}

// OutlookConfig holds Microsoft Graph / Outlook calendar sync settings.
type OutlookConfig struct {
	// TenantID is the Azure AD tenant. Use "common" for personal/multi-tenant accounts.
	TenantID string `json:"tenant_id"`
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string `json:"client_id"`
	// Timezone is the IANA timezone for event times (e.g. "America/Chicago"). Empty = driver time zone.
	Timezone string `json:"timezone"`
}

const (
	// DefaultTenantID is the Microsoft "common" tenant (supports personal and
	// multi-tenant organisational accounts without additional registration).
	DefaultTenantID = "common"
	// DefaultClientID is the well-known public Azure CLI app ID.
	// It supports device code flow without a client secret and requires no
	// app registration.
	DefaultClientID = "04b07795-8542-4c4a-95af-30b2c573d5ab"

	SeedFirstEntry = "first_entry"
	SeedPriorEvent = "prior_event"

	DefaultAddr     = "127.0.0.1:8080"
	DefaultLogLevel = "warn"
)

// Default returns a Config pre-filled with the built-in defaults.
func Default() Config {
	return Config{
		HOS:    HOSConfig{SeedPolicy: SeedFirstEntry},
		Log:    LogConfig{Level: DefaultLogLevel, Format: "console"},
		Server: ServerConfig{Addr: DefaultAddr},
		Outlook: OutlookConfig{
			TenantID: DefaultTenantID,
			ClientID: DefaultClientID,
		},
	}
}

// Location resolves the driver time zone.
func (c Config) Location() (*time.Location, error) {
	return timecalc.ParseZone(c.Driver.TimeZone)
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	switch c.HOS.SeedPolicy {
	case SeedFirstEntry, SeedPriorEvent:
	default:
		return fmt.Errorf("hos.seed_policy %q: want %q or %q", c.HOS.SeedPolicy, SeedFirstEntry, SeedPriorEvent)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("driver.time_zone: %w", err)
	}
	return nil
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing.
const configTemplate = `// eld configuration
//
// All settings are optional. Edit this file to set up your driver profile.
{
  // Driver profile. time_zone is the home terminal time zone; log days run
  // from midnight to midnight in it. Use an IANA name ("America/Chicago")
  // or a fixed offset ("UTC-06:00"). Empty means UTC.
  "driver": {
    "name": "",
    "license_no": "",
    "license_state": "",
    "time_zone": ""
  },

  // Hours-of-service engine.
  // seed_policy decides which status is in effect at midnight:
  //   "first_entry" - the day's first recorded status (default)
  //   "prior_event" - the last status recorded before midnight, OFF if none
  "hos": {
    "seed_policy": "first_entry"
  },

  // Diagnostic logging on stderr: level is trace|debug|info|warn|error,
  // format is console or json.
  "log": {
    "level": "warn",
    "format": "console"
  },

  // Listen address of eld serve.
  "server": {
    "addr": "127.0.0.1:8080"
  },

  // Microsoft Graph / Outlook calendar import of planned duty blocks.
  "outlook": {
    "tenant_id": "common",
    "client_id": "04b07795-8542-4c4a-95af-30b2c573d5ab",
    "timezone": ""
  }
}
`

// FilePath returns the path to <base>/config.json.
func FilePath(base string) string {
	return filepath.Join(base, "config.json")
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads <base>/config.json, creating it with annotated defaults on first
// run.
func Load(base string) (Config, error) {
	path := FilePath(base)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := Default()
	if err := json.Unmarshal(stripLineComments(data), &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}
	fillDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// fillDefaults restores fields the user blanked out.
func fillDefaults(cfg *Config) {
	d := Default()
	if cfg.HOS.SeedPolicy == "" {
		cfg.HOS.SeedPolicy = d.HOS.SeedPolicy
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = d.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = d.Log.Format
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = d.Server.Addr
	}
	if cfg.Outlook.TenantID == "" {
		cfg.Outlook.TenantID = d.Outlook.TenantID
	}
	if cfg.Outlook.ClientID == "" {
		cfg.Outlook.ClientID = d.Outlook.ClientID
	}
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
