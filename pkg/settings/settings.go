// Package settings manages persistent user settings for the maxpfx CLI.
package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Settings holds persistent user preferences
type Settings struct {
	// DefaultRouter is the router to audit when -r is not specified
	DefaultRouter string `json:"default_router,omitempty"`

	// InventoryPath overrides the default inventory file location
	InventoryPath string `json:"inventory_path,omitempty"`

	// CommandDir is where check --write-commands drops its output files
	CommandDir string `json:"command_dir,omitempty"`
}

// DefaultSettingsPath returns the default path for the settings file
func DefaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "maxpfx_settings.json"
	}
	return filepath.Join(home, ".maxpfx", "settings.json")
}

// Load reads settings from the default location
func Load() (*Settings, error) {
	return LoadFrom(DefaultSettingsPath())
}

// LoadFrom reads settings from a specific path
func LoadFrom(path string) (*Settings, error) {
	s := &Settings{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty settings if file doesn't exist
			return s, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}

	return s, nil
}

// Save writes settings to the default location
func (s *Settings) Save() error {
	return s.SaveTo(DefaultSettingsPath())
}

// SaveTo writes settings to a specific path
func (s *Settings) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// GetCommandDir returns the command output directory (with fallback)
func (s *Settings) GetCommandDir() string {
	if s.CommandDir != "" {
		return s.CommandDir
	}
	return "."
}

// Clear resets all settings to defaults
func (s *Settings) Clear() {
	*s = Settings{}
}
