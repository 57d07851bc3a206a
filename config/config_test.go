package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, 18, cfg.Register.CutoffHour)
	assert.Equal(t, 0, cfg.Register.CutoffMinute)
	assert.Equal(t, 9, cfg.Register.OpenHour)
	assert.Equal(t, "America/Panama", cfg.Register.Timezone)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 5*time.Minute, cfg.DispatchWindow())
}

func TestCutoff(t *testing.T) {
	cfg := Default()
	cut := cfg.Cutoff()
	assert.Equal(t, 18, cut.Hour)
	assert.Equal(t, 0, cut.Minute)
	require.NotNil(t, cut.Location)
	assert.Equal(t, "America/Panama", cut.Location.String())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "cutoff hour out of range",
			mutate:  func(c *Config) { c.Register.CutoffHour = 24 },
			wantErr: true,
			errMsg:  "register.cutoff_hour must be between 0 and 23",
		},
		{
			name:    "cutoff minute out of range",
			mutate:  func(c *Config) { c.Register.CutoffMinute = 75 },
			wantErr: true,
			errMsg:  "register.cutoff_minute must be between 0 and 59",
		},
		{
			name:    "missing timezone",
			mutate:  func(c *Config) { c.Register.Timezone = "" },
			wantErr: true,
			errMsg:  "register.timezone is required",
		},
		{
			name:    "bad timezone",
			mutate:  func(c *Config) { c.Register.Timezone = "Mars/Olympus" },
			wantErr: true,
			errMsg:  "unknown timezone",
		},
		{
			name:    "window too wide",
			mutate:  func(c *Config) { c.Register.DispatchWindowMinutes = 120 },
			wantErr: true,
			errMsg:  "register.dispatch_window_minutes must be between 1 and 60",
		},
		{
			name:    "missing db path",
			mutate:  func(c *Config) { c.Store.DBPath = "" },
			wantErr: true,
			errMsg:  "store.db_path is required",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: true,
			errMsg:  "log.level must be one of debug, info, warn, error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cashdesk.yaml")

	cfg := Default()
	cfg.Register.CutoffHour = 20
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveAndLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cashdesk.json")

	cfg := Default()
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("register:\n  timezone: Mars/Olympus\n"), 0644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}
