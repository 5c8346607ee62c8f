package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOptionalMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("a missing config file must not be an error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadOptionalOverlaysPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "browser.yaml")
	if err := os.WriteFile(path, []byte("home_page: https://example.com\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadOptional(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HomePage != "https://example.com" {
		t.Fatalf("home_page = %q", cfg.HomePage)
	}
	if cfg.Viewport.Width != Default().Viewport.Width {
		t.Fatalf("unspecified viewport width should fall back to default, got %d", cfg.Viewport.Width)
	}
	if cfg.ScrollStepPx != Default().ScrollStepPx {
		t.Fatalf("unspecified scroll step should fall back to default, got %v", cfg.ScrollStepPx)
	}
}

func TestResolveFillsOnlyZeroFields(t *testing.T) {
	partial := Config{HomePage: "about:blank", Viewport: Viewport{Width: 1024}}
	resolved := Resolve(partial)
	if resolved.Viewport.Width != 1024 {
		t.Fatalf("explicit width must survive Resolve, got %d", resolved.Viewport.Width)
	}
	if resolved.Viewport.Height != Default().Viewport.Height {
		t.Fatalf("unset height must fall back to default, got %d", resolved.Viewport.Height)
	}
}
