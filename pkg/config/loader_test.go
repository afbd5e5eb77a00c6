package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BSchoolland/excalibur-v3/pkg/paths"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("OVERLAY_STATE_DIR", filepath.Join(tmp, "state"))
	paths.ResetForTest()

	cfg, err := Load(filepath.Join(tmp, "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Poll.IntervalMs != 100 {
		t.Errorf("Poll.IntervalMs = %d, want 100", cfg.Poll.IntervalMs)
	}
	if cfg.Poll.GraceMs != 1000 {
		t.Errorf("Poll.GraceMs = %d, want 1000", cfg.Poll.GraceMs)
	}
	if cfg.Timing.HideDelayMs != 2000 || cfg.Timing.ResetDelayMs != 2500 {
		t.Errorf("Timing = %+v, want hide 2000 / reset 2500", cfg.Timing)
	}
	if cfg.Render.Theme != "midnight" {
		t.Errorf("Render.Theme = %q, want midnight", cfg.Render.Theme)
	}
	if cfg.Files.State != paths.StatePath() {
		t.Errorf("Files.State = %q, want %q", cfg.Files.State, paths.StatePath())
	}
	if !cfg.SoundEnabled() {
		t.Error("SoundEnabled() = false by default, want true")
	}
}

func TestLoad_PartialYamlKeepsDefaults(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("OVERLAY_STATE_DIR", filepath.Join(tmp, "state"))
	paths.ResetForTest()

	path := filepath.Join(tmp, "config.yaml")
	data := "poll:\n  interval_ms: 250\nrender:\n  theme: daylight\nsound:\n  enabled: false\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Poll.IntervalMs != 250 {
		t.Errorf("Poll.IntervalMs = %d, want 250", cfg.Poll.IntervalMs)
	}
	if cfg.Poll.GraceMs != 1000 {
		t.Errorf("Poll.GraceMs = %d, want defaulted 1000", cfg.Poll.GraceMs)
	}
	if cfg.Render.Theme != "daylight" {
		t.Errorf("Render.Theme = %q, want daylight", cfg.Render.Theme)
	}
	if cfg.SoundEnabled() {
		t.Error("SoundEnabled() = true, want false when disabled explicitly")
	}
}

func TestLoad_MalformedYamlErrors(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(path, []byte("poll: [not a map"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() with malformed yaml should error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("OVERLAY_STATE_DIR", filepath.Join(tmp, "state"))
	paths.ResetForTest()

	path := filepath.Join(tmp, "config.yaml")
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Render.Width = 60

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Render.Width != 60 {
		t.Errorf("Render.Width = %d, want 60", loaded.Render.Width)
	}
}
