package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GFASCOPE_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Camera.MinScale != 0.5 {
		t.Fatalf("min scale = %v, want 0.5", cfg.Camera.MinScale)
	}
	if cfg.Camera.PanStep != 120 {
		t.Fatalf("pan step = %v, want 120", cfg.Camera.PanStep)
	}
	if cfg.UI.FPS != 60 {
		t.Fatalf("fps = %d, want 60", cfg.UI.FPS)
	}
	if !cfg.UI.ShowEdges {
		t.Fatal("show edges should default on")
	}
	if !strings.Contains(cfg.History.Path, "gfascope") {
		t.Fatalf("history path = %q", cfg.History.Path)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("log level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
[camera]
min_scale = 0.25
pan_step = 300.0

[ui]
fps = 30
show_edges = false

[log]
level = "debug"
`)
	t.Setenv("GFASCOPE_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Camera.MinScale != 0.25 {
		t.Fatalf("min scale = %v, want 0.25", cfg.Camera.MinScale)
	}
	if cfg.Camera.PanStep != 300 {
		t.Fatalf("pan step = %v, want 300", cfg.Camera.PanStep)
	}
	if cfg.UI.FPS != 30 {
		t.Fatalf("fps = %d, want 30", cfg.UI.FPS)
	}
	if cfg.UI.ShowEdges {
		t.Fatal("show edges should be off")
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level = %q, want debug", cfg.Log.Level)
	}
	// Keys not in the file keep their defaults.
	if cfg.Camera.ZoomStep != 0.25 {
		t.Fatalf("zoom step = %v, want 0.25", cfg.Camera.ZoomStep)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "[ui]\nfps = 30\n")
	t.Setenv("GFASCOPE_CONFIG", path)
	t.Setenv("GFASCOPE_UI_FPS", "120")
	t.Setenv("GFASCOPE_CAMERA_MIN_SCALE", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.UI.FPS != 120 {
		t.Fatalf("fps = %d, want env override 120", cfg.UI.FPS)
	}
	if cfg.Camera.MinScale != 0.75 {
		t.Fatalf("min scale = %v, want env override 0.75", cfg.Camera.MinScale)
	}
}

func TestLoadNormalizesBadValues(t *testing.T) {
	path := writeConfig(t, `
[camera]
min_scale = -1.0

[ui]
fps = -5
accent = "blue"
`)
	t.Setenv("GFASCOPE_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Camera.MinScale != 0.5 {
		t.Fatalf("min scale = %v, want clamped 0.5", cfg.Camera.MinScale)
	}
	if cfg.UI.FPS != 60 {
		t.Fatalf("fps = %d, want clamped 60", cfg.UI.FPS)
	}
	if cfg.UI.Accent != "#89b4fa" {
		t.Fatalf("accent = %q, want default", cfg.UI.Accent)
	}
}
