// Package config loads cashdesk configuration from YAML or JSON.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/cashdesk/period"
)

// Config is the complete cashdesk configuration.
type Config struct {
	Register RegisterConfig `json:"register" yaml:"register"`
	Store    StoreConfig    `json:"store" yaml:"store"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// RegisterConfig holds the business-day constants: when the day rolls
// over, when the register opens, and the automatic dispatch window.
type RegisterConfig struct {
	CutoffHour            int    `json:"cutoff_hour" yaml:"cutoff_hour"`
	CutoffMinute          int    `json:"cutoff_minute" yaml:"cutoff_minute"`
	OpenHour              int    `json:"open_hour" yaml:"open_hour"`
	Timezone              string `json:"timezone" yaml:"timezone"`
	DispatchWindowMinutes int    `json:"dispatch_window_minutes" yaml:"dispatch_window_minutes"`
}

// StoreConfig holds persistence parameters.
type StoreConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

// LogConfig holds logging parameters.
type LogConfig struct {
	Level string `json:"level" yaml:"level"` // debug, info, warn, error
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (format by extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Register.CutoffHour < 0 || c.Register.CutoffHour > 23 {
		return fmt.Errorf("register.cutoff_hour must be between 0 and 23")
	}
	if c.Register.CutoffMinute < 0 || c.Register.CutoffMinute > 59 {
		return fmt.Errorf("register.cutoff_minute must be between 0 and 59")
	}
	if c.Register.OpenHour < 0 || c.Register.OpenHour > 23 {
		return fmt.Errorf("register.open_hour must be between 0 and 23")
	}
	if c.Register.Timezone == "" {
		return fmt.Errorf("register.timezone is required")
	}
	if _, err := time.LoadLocation(c.Register.Timezone); err != nil {
		return fmt.Errorf("unknown timezone: %s", c.Register.Timezone)
	}
	if c.Register.DispatchWindowMinutes < 1 || c.Register.DispatchWindowMinutes > 60 {
		return fmt.Errorf("register.dispatch_window_minutes must be between 1 and 60")
	}
	if c.Store.DBPath == "" {
		return fmt.Errorf("store.db_path is required")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	return nil
}

// Cutoff builds the period cutoff from the register settings. Call
// Validate first; an unloadable timezone falls back to UTC here.
func (c *Config) Cutoff() period.Cutoff {
	loc, err := time.LoadLocation(c.Register.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return period.Cutoff{
		Hour:     c.Register.CutoffHour,
		Minute:   c.Register.CutoffMinute,
		Location: loc,
	}
}

// DispatchWindow returns the automatic dispatch window as a duration.
func (c *Config) DispatchWindow() time.Duration {
	return time.Duration(c.Register.DispatchWindowMinutes) * time.Minute
}

// Default returns a configuration with the production constants:
// 18:00 cutoff and 09:00 open in America/Panama, 5 minute window.
func Default() *Config {
	return &Config{
		Register: RegisterConfig{
			CutoffHour:            18,
			CutoffMinute:          0,
			OpenHour:              9,
			Timezone:              "America/Panama",
			DispatchWindowMinutes: 5,
		},
		Store: StoreConfig{
			DBPath: "./cashdesk.sqlite",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
