// Package appdirs resolves the per-user directories fluxsaver reads and
// writes.
package appdirs

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "fluxsaver"

// ConfigDir returns the directory holding config.yaml. Priority:
// 1) XDG_CONFIG_HOME/fluxsaver (if set)
// 2) %APPDATA%\fluxsaver on Windows
// 3) ~/.config/fluxsaver
func ConfigDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	if runtime.GOOS == "windows" {
		if dir := os.Getenv("APPDATA"); dir != "" {
			return filepath.Join(dir, appName), nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config dir: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// DataDir returns the directory for logs and other state, creating it when
// missing. Priority:
// 1) XDG_DATA_HOME/fluxsaver (if set)
// 2) %LOCALAPPDATA%\fluxsaver on Windows
// 3) ~/.local/share/fluxsaver
func DataDir() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create data dir: %w", err)
	}
	return dir, nil
}

func dataDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	if runtime.GOOS == "windows" {
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return filepath.Join(dir, appName), nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve data dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// ConfigPath returns the settings file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LogPath returns the log file path, creating its directory.
func LogPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName+".log"), nil
}
