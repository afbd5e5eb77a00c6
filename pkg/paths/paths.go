// Package paths provides centralized path resolution for the overlay's
// config and exchange files.
//
// Layout (XDG-style):
//
//	Config:   ~/.config/excalibur/config.yaml       (override: OVERLAY_CONFIG_DIR)
//	Exchange: ~/.local/state/excalibur/             (override: OVERLAY_STATE_DIR)
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Default exchange file names.
const (
	StateFileName   = "overlay_state.json"
	CommandFileName = "overlay_commands.json"
)

var (
	configDirOnce   sync.Once
	configDirCached string

	stateDirOnce   sync.Once
	stateDirCached string
)

// ConfigDir resolves the config directory.
// Priority: OVERLAY_CONFIG_DIR env > ~/.config/excalibur/
func ConfigDir() string {
	configDirOnce.Do(func() {
		if env := os.Getenv("OVERLAY_CONFIG_DIR"); env != "" {
			configDirCached = env
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				configDirCached = "."
			} else {
				configDirCached = filepath.Join(home, ".config", "excalibur")
			}
		}
	})
	return configDirCached
}

// StateDir resolves the exchange directory holding the state and command files.
// Priority: OVERLAY_STATE_DIR env > ~/.local/state/excalibur/
func StateDir() string {
	stateDirOnce.Do(func() {
		if env := os.Getenv("OVERLAY_STATE_DIR"); env != "" {
			stateDirCached = env
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				stateDirCached = "."
			} else {
				stateDirCached = filepath.Join(home, ".local", "state", "excalibur")
			}
		}
	})
	return stateDirCached
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// StatePath returns the full path to the agent-written state file.
func StatePath() string {
	return filepath.Join(StateDir(), StateFileName)
}

// CommandPath returns the full path to the overlay-written command file.
func CommandPath() string {
	return filepath.Join(StateDir(), CommandFileName)
}

// EnsureConfigDir creates the config directory if it doesn't exist and returns its path.
func EnsureConfigDir() (string, error) {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create config dir %s: %w", dir, err)
	}
	return dir, nil
}

// EnsureStateDir creates the exchange directory if it doesn't exist and returns its path.
func EnsureStateDir() (string, error) {
	dir := StateDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create state dir %s: %w", dir, err)
	}
	return dir, nil
}

// ResetForTest clears cached values so tests can re-run resolution logic.
// Only use in tests.
func ResetForTest() {
	configDirOnce = sync.Once{}
	configDirCached = ""
	stateDirOnce = sync.Once{}
	stateDirCached = ""
}
