// Package config provides configuration management for flowdesk.
//
// Config file locations (priority order):
//  1. $FLOWDESK_CONFIG
//  2. ./flowdesk.yaml, ./flowdesk.toml
//  3. $XDG_CONFIG_HOME/flowdesk/config.{yaml,toml}
//  4. ~/.config/flowdesk/config.{yaml,toml}
//  5. /etc/flowdesk/config.{yaml,toml}
//
// Files ending in .toml are parsed as TOML, everything else as YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"flowdesk/internal/bridge"
)

// Defaults
const (
	DefaultAddr          = ":8080"
	DefaultAssetsDir     = "./drawflow_src"
	DefaultDatabasePath  = "./flowdesk.db"
	DefaultKeepSnapshots = 200
	DefaultLogLevel      = "info"
	DefaultDebounce      = 300 * time.Millisecond
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if isTOML(path) {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, path, fmt.Errorf("parse config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var data []byte
	if isTOML(path) {
		var sb strings.Builder
		if err := toml.NewEncoder(&sb).Encode(c); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		data = []byte(sb.String())
	} else {
		var err error
		if data, err = yaml.Marshal(c); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.AssetsDir == "" {
		c.Server.AssetsDir = DefaultAssetsDir
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDatabasePath
	}
	if c.Database.KeepSnapshots == 0 {
		c.Database.KeepSnapshots = DefaultKeepSnapshots
	}
	if c.Editor.Debounce == nil {
		d := Duration(DefaultDebounce)
		c.Editor.Debounce = &d
	}
	if c.Bridge.CallTimeout == nil {
		d := Duration(bridge.DefaultCallTimeout)
		c.Bridge.CallTimeout = &d
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// LayoutOptions returns the auto-layout settings with overrides applied
func (c *Config) LayoutOptions() bridge.LayoutOptions {
	opts := bridge.DefaultLayoutOptions()
	if c.Bridge.Layout == nil {
		return opts
	}

	if d := strings.ToUpper(c.Bridge.Layout.Direction); d != "" {
		opts.Direction = d
	}
	if c.Bridge.Layout.NodeSpacing != nil {
		opts.NodeSpacing = *c.Bridge.Layout.NodeSpacing
	}
	if c.Bridge.Layout.LayerSpacing != nil {
		opts.LayerSpacing = *c.Bridge.Layout.LayerSpacing
	}
	return opts
}

// BridgeOptions returns the widget bridge settings
func (c *Config) BridgeOptions() bridge.Options {
	return bridge.Options{
		CallTimeout: c.Bridge.CallTimeout.Duration(),
		Layout:      c.LayoutOptions(),
	}
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Listen: %s, Assets: %s, Database: %s\n",
		c.Server.Addr, c.Server.AssetsDir, c.Database.Path)
	initial := c.Editor.InitialDocument
	if initial == "" {
		initial = "(empty)"
	}
	summary += fmt.Sprintf("Initial document: %s, Restore latest: %v, Watch: %v\n",
		initial, c.Editor.RestoreLatest, c.Editor.Watch)
	summary += fmt.Sprintf("Call timeout: %s, Log level: %s",
		c.Bridge.CallTimeout.Duration(), c.Log.Level)
	return summary
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
