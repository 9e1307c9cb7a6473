package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bannerpin/bannerpin/internal/geometry"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestValidate_RejectsUnknownPosition(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Position = "upper-left"
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected error for unknown position")
	}
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if verr.Path != "position" {
		t.Fatalf("expected path 'position', got %q", verr.Path)
	}
}

func TestValidate_PollWindowShorterThanInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PollWindowMS = 100
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error when poll window is shorter than the interval")
	}
}

func TestLoadFromPath_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Position != string(geometry.DefaultAnchor) {
		t.Fatalf("expected default position, got %q", cfg.Position)
	}
}

func TestLoadFromPath_OverridesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
position: bottom-left
notifier_class: mako
retry_interval_ms: 5000
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Anchor() != geometry.BottomLeft {
		t.Fatalf("expected bottom-left, got %q", cfg.Position)
	}
	if cfg.NotifierClass != "mako" {
		t.Fatalf("expected notifier_class mako, got %q", cfg.NotifierClass)
	}
	if cfg.RetryInterval() != 5*time.Second {
		t.Fatalf("expected retry interval 5s, got %v", cfg.RetryInterval())
	}
	// Untouched keys keep their defaults.
	if cfg.OverlayPrefix != "widget-" {
		t.Fatalf("expected default overlay prefix, got %q", cfg.OverlayPrefix)
	}
}

func TestLoadFromPath_RejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("postion: top-left\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFromPath(path); err == nil {
		t.Fatalf("expected error for misspelled key")
	}
}

func TestSaveToPath_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Position = "middle-center"
	cfg.EdgeInset = 24
	if err := SaveToPath(cfg, path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Position != "middle-center" || loaded.EdgeInset != 24 {
		t.Fatalf("round trip lost values: %+v", loaded)
	}
}

func TestSaveToPath_RefusesInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "verbose"
	err := SaveToPath(cfg, filepath.Join(t.TempDir(), "config.yaml"))
	if err == nil {
		t.Fatalf("expected validation failure")
	}
	if !strings.Contains(err.Error(), "log_level") {
		t.Fatalf("expected log_level in error, got %v", err)
	}
}
