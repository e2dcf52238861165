package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if *cfg != DefaultConfig {
		t.Errorf("Expected defaults for a missing file, got %+v", cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
host_id = 7

[bar]
height = 48

[window]
width = 500
height = 300
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.HostID != 7 {
		t.Errorf("Expected host_id 7, got %d", cfg.HostID)
	}
	if cfg.Bar.Height != 48 {
		t.Errorf("Expected bar height 48, got %d", cfg.Bar.Height)
	}
	if cfg.Bar.Spacing != DefaultConfig.Bar.Spacing {
		t.Errorf("Expected default spacing %d, got %d", DefaultConfig.Bar.Spacing, cfg.Bar.Spacing)
	}
	if cfg.Window.Width != 500 || cfg.Window.Height != 300 {
		t.Errorf("Expected a 500x300 window, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not toml ["), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected an error for malformed TOML")
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bar too short", func(c *Config) { c.Bar.Height = 8 }, true},
		{"bar too tall", func(c *Config) { c.Bar.Height = 512 }, true},
		{"negative spacing", func(c *Config) { c.Bar.Spacing = -1 }, true},
		{"window too narrow", func(c *Config) { c.Window.Width = 50 }, true},
		{"window too tall", func(c *Config) { c.Window.Height = 5000 }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("Expected a validation error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestLoadAndValidateConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[bar]
height = 8
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := LoadAndValidateConfig(path); err == nil {
		t.Error("Expected a validation error for an out of range bar height")
	}
}
