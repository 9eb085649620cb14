package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version" toml:"version"`
	Server   ServerConfig   `yaml:"server" toml:"server"`
	Database DatabaseConfig `yaml:"database" toml:"database"`
	Editor   EditorConfig   `yaml:"editor" toml:"editor"`
	Bridge   BridgeConfig   `yaml:"bridge" toml:"bridge"`
	Log      LogConfig      `yaml:"log" toml:"log"`
}

// ServerConfig holds HTTP settings
type ServerConfig struct {
	Addr      string `yaml:"addr" toml:"addr"`
	AssetsDir string `yaml:"assets_dir" toml:"assets_dir"` // Drawflow and ELK bundles
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path          string `yaml:"path" toml:"path"`
	KeepSnapshots int    `yaml:"keep_snapshots" toml:"keep_snapshots"` // negative keeps all
}

// EditorConfig controls what a new page starts with
type EditorConfig struct {
	InitialDocument string    `yaml:"initial_document,omitempty" toml:"initial_document"`
	RestoreLatest   bool      `yaml:"restore_latest" toml:"restore_latest"`
	Watch           bool      `yaml:"watch" toml:"watch"`
	Debounce        *Duration `yaml:"debounce,omitempty" toml:"debounce"`
}

// BridgeConfig tunes calls into the editor widget
type BridgeConfig struct {
	CallTimeout *Duration     `yaml:"call_timeout,omitempty" toml:"call_timeout"`
	Layout      *LayoutConfig `yaml:"layout,omitempty" toml:"layout"`
}

// LayoutConfig overrides auto-layout defaults
type LayoutConfig struct {
	Direction    string `yaml:"direction,omitempty" toml:"direction"` // RIGHT, DOWN, LEFT, UP
	NodeSpacing  *int   `yaml:"node_spacing,omitempty" toml:"node_spacing"`
	LayerSpacing *int   `yaml:"layer_spacing,omitempty" toml:"layer_spacing"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}

// Duration wraps time.Duration for YAML and TOML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
