// Package config loads the optional browser.yaml configuration file,
// adapted from the teacher CLI's LoadOptional/Resolve pattern.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Viewport is the full browser window size in pixels; the chrome band is
// drawn inside it and tab content gets the height that remains.
type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config holds every tunable the engine reads at startup.
type Config struct {
	Viewport       Viewport `yaml:"viewport"`
	RefreshRateSec float64  `yaml:"refresh_rate_sec"`
	HomePage       string   `yaml:"home_page"`
	DarkMode       bool     `yaml:"dark_mode"`
	ScrollStepPx   float64  `yaml:"scroll_step_px"`
}

// Default returns the configuration used when no browser.yaml is present.
func Default() Config {
	return Config{
		Viewport:       Viewport{Width: 800, Height: 600},
		RefreshRateSec: 0.033,
		HomePage:       "about:blank",
		DarkMode:       false,
		ScrollStepPx:   100,
	}
}

// LoadOptional reads path if present and overlays it onto Default(). A
// missing file is not an error.
func LoadOptional(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return Resolve(cfg), nil
}

// Resolve fills in any zero-valued fields left empty by a partial
// browser.yaml with defaults.
func Resolve(cfg Config) Config {
	def := Default()
	if cfg.Viewport.Width == 0 {
		cfg.Viewport.Width = def.Viewport.Width
	}
	if cfg.Viewport.Height == 0 {
		cfg.Viewport.Height = def.Viewport.Height
	}
	if cfg.RefreshRateSec == 0 {
		cfg.RefreshRateSec = def.RefreshRateSec
	}
	if cfg.HomePage == "" {
		cfg.HomePage = def.HomePage
	}
	if cfg.ScrollStepPx == 0 {
		cfg.ScrollStepPx = def.ScrollStepPx
	}
	return cfg
}
