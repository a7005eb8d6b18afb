package client

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SoundPrefs mirrors the three sound channels of the browser client.
type SoundPrefs struct {
	Volume float64 `yaml:"volume"` // 0.0 - 1.0
	Pop    bool    `yaml:"pop"`
	Bonus  bool    `yaml:"bonus"`
	Idle   bool    `yaml:"idle"`
}

// Prefs is the locally persisted player state: the last-used name, a sticky
// API base, and sound settings.
type Prefs struct {
	Name  string     `yaml:"name"`
	API   string     `yaml:"api,omitempty"`
	Sound SoundPrefs `yaml:"sound"`
}

func DefaultPrefs() Prefs {
	return Prefs{
		Sound: SoundPrefs{Volume: 0.6, Pop: true, Bonus: true, Idle: true},
	}
}

// DefaultPrefsPath is ~/.debirun/prefs.yaml.
func DefaultPrefsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "prefs.yaml"
	}
	return filepath.Join(home, ".debirun", "prefs.yaml")
}

// LoadPrefs reads prefs from path, returning defaults when the file does not
// exist. Volume is clamped into [0, 1] on the way in.
func LoadPrefs(path string) (Prefs, error) {
	prefs := DefaultPrefs()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return prefs, nil
	}
	if err != nil {
		return prefs, fmt.Errorf("reading prefs: %w", err)
	}
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return DefaultPrefs(), fmt.Errorf("parsing prefs: %w", err)
	}

	if prefs.Sound.Volume < 0 {
		prefs.Sound.Volume = 0
	}
	if prefs.Sound.Volume > 1 {
		prefs.Sound.Volume = 1
	}
	return prefs, nil
}

// SavePrefs writes prefs to path, creating the directory if needed.
func SavePrefs(path string, prefs Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating prefs dir: %w", err)
	}
	data, err := yaml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encoding prefs: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing prefs: %w", err)
	}
	return nil
}
