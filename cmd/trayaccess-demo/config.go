package main

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config configures the demo bar.
type Config struct {
	// Identifier used in the StatusNotifierHost D-Bus name. Zero means the
	// process ID.
	HostID int `toml:"host_id"`

	Bar    BarConfig    `toml:"bar"`
	Window WindowConfig `toml:"window"`
}

type BarConfig struct {
	Height  int `toml:"height"`
	Spacing int `toml:"spacing"`
}

// WindowConfig sizes the drop-down windows used for items that are not
// menu-based.
type WindowConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

var DefaultConfig = Config{
	Bar:    BarConfig{Height: 32, Spacing: 4},
	Window: WindowConfig{Width: 360, Height: 240},
}

// LoadConfig reads the TOML configuration at path. A missing file yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	expandedPath := expandPath(path)

	if _, err := os.Stat(expandedPath); os.IsNotExist(err) {
		cfg := DefaultConfig
		return &cfg, nil
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadAndValidateConfig reads and validates the configuration at path.
func LoadAndValidateConfig(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Bar.Height < 16 || c.Bar.Height > 128 {
		return fmt.Errorf("invalid bar height: %d (must be 16-128)", c.Bar.Height)
	}
	if c.Bar.Spacing < 0 || c.Bar.Spacing > 64 {
		return fmt.Errorf("invalid bar spacing: %d (must be 0-64)", c.Bar.Spacing)
	}
	if c.Window.Width < 100 || c.Window.Width > 4000 {
		return fmt.Errorf("invalid window width: %d (must be 100-4000)", c.Window.Width)
	}
	if c.Window.Height < 100 || c.Window.Height > 4000 {
		return fmt.Errorf("invalid window height: %d (must be 100-4000)", c.Window.Height)
	}
	return nil
}

func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		usr, err := user.Current()
		if err == nil {
			return filepath.Join(usr.HomeDir, path[1:])
		}
	}
	return path
}
