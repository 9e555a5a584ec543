package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "geobuckets"

	// EnvPrefix is the prefix of environment variables that override
	// config.yaml settings.
	EnvPrefix = "GEOBUCKETS"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/geobuckets by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/geobuckets by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// DataDir returns the directory path for the embedded database.
// Returns ~/.local/share/geobuckets by default.
func DataDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/geobuckets/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(DataDir(homeDir), "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/geobuckets/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// SQLiteFilePath returns the default location of the SQLite database.
// Returns ~/.local/share/geobuckets/geobuckets.db by default.
func SQLiteFilePath(homeDir string) string {
	return filepath.Join(DataDir(homeDir), AppName+".db")
}
