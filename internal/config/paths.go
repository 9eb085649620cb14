package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath names an explicit config file
	EnvConfigPath = "FLOWDESK_CONFIG"
	// ConfigFileName is looked up in the working directory
	ConfigFileName = "flowdesk.yaml"
	// ConfigDirName is the directory under the XDG and system config roots
	ConfigDirName = "flowdesk"
)

// Each search location is tried with these names, YAML first
var (
	localNames = []string{ConfigFileName, "flowdesk.toml"}
	dirNames   = []string{"config.yaml", "config.toml"}
)

// FindConfigPath returns the first existing config file in priority order,
// or "" when there is none. An explicit $FLOWDESK_CONFIG that does not exist
// is skipped.
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" && fileExists(path) {
		return path
	}

	for _, name := range localNames {
		if fileExists(name) {
			if abs, err := filepath.Abs(name); err == nil {
				return abs
			}
			return name
		}
	}

	for _, dir := range searchDirs() {
		for _, name := range dirNames {
			if path := filepath.Join(dir, name); fileExists(path) {
				return path
			}
		}
	}
	return ""
}

// searchDirs lists the config directories after the working directory
func searchDirs() []string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, ConfigDirName))
	}
	if home := os.Getenv("HOME"); home != "" {
		dirs = append(dirs, filepath.Join(home, ".config", ConfigDirName))
	}
	return append(dirs, filepath.Join("/etc", ConfigDirName))
}

// EnsureConfigDir creates the directory holding configPath
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
