package client

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPrefs_MissingFileGivesDefaults(t *testing.T) {
	prefs, err := LoadPrefs(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadPrefs() error: %v", err)
	}
	if prefs.Name != "" {
		t.Errorf("Name = %q, want empty", prefs.Name)
	}
	if prefs.Sound.Volume != 0.6 || !prefs.Sound.Pop || !prefs.Sound.Bonus || !prefs.Sound.Idle {
		t.Errorf("Sound = %+v, want defaults", prefs.Sound)
	}
}

func TestSaveLoadPrefs_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.yaml")

	want := Prefs{
		Name: "Ada",
		API:  "http://play.example.com",
		Sound: SoundPrefs{
			Volume: 0.25,
			Pop:    true,
			Bonus:  false,
			Idle:   true,
		},
	}
	if err := SavePrefs(path, want); err != nil {
		t.Fatalf("SavePrefs() error: %v", err)
	}

	got, err := LoadPrefs(path)
	if err != nil {
		t.Fatalf("LoadPrefs() error: %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestLoadPrefs_ClampsVolume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	os.WriteFile(path, []byte("sound:\n  volume: 3.5\n"), 0o644)

	prefs, err := LoadPrefs(path)
	if err != nil {
		t.Fatalf("LoadPrefs() error: %v", err)
	}
	if prefs.Sound.Volume != 1 {
		t.Errorf("Volume = %v, want clamp to 1", prefs.Sound.Volume)
	}
}

func TestResolveBaseURL(t *testing.T) {
	if got := ResolveBaseURL("http://flag:1/", ""); got != "http://flag:1" {
		t.Errorf("flag wins: got %q", got)
	}
	if got := ResolveBaseURL("", "http://prefs:2"); got != "http://prefs:2" {
		t.Errorf("prefs value: got %q", got)
	}
	if got := ResolveBaseURL("", ""); got != DefaultBaseURL {
		t.Errorf("default: got %q", got)
	}

	os.Setenv("DEBIRUN_API", "http://env:3")
	t.Cleanup(func() { os.Unsetenv("DEBIRUN_API") })
	if got := ResolveBaseURL("", "http://prefs:2"); got != "http://env:3" {
		t.Errorf("env beats prefs: got %q", got)
	}
}
