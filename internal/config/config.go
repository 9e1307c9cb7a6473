// Package config loads and validates the daemon's YAML configuration.
package config

import (
	"fmt"
	"time"

	"github.com/bannerpin/bannerpin/internal/geometry"
	"github.com/bannerpin/bannerpin/internal/lifecycle"
)

type Config struct {
	// Position is the banner anchor, one of the nine grid names
	// ("top-left" .. "bottom-right").
	Position string `yaml:"position"`

	// EdgeInset pads anchors away from the left/right/top screen edges;
	// BottomInset pads bottom anchors. Pixels.
	EdgeInset   int `yaml:"edge_inset"`
	BottomInset int `yaml:"bottom_inset"`

	// NotifierClass is the WM_CLASS of the notification daemon whose
	// windows get repositioned.
	NotifierClass string `yaml:"notifier_class"`
	// NotifierBusName is the D-Bus name whose ownership tracks the
	// notifier's lifetime.
	NotifierBusName string `yaml:"notifier_bus_name"`

	// BannerRoles are the window-type roles that mark a banner surface.
	BannerRoles []string `yaml:"banner_roles"`
	// OverlayPrefix marks overlay widgets (stacks, history panels) whose
	// presence suppresses repositioning.
	OverlayPrefix string `yaml:"overlay_prefix"`

	// CycleHotkey cycles through anchors. Empty disables the binding.
	CycleHotkey string `yaml:"cycle_hotkey"`

	RetryIntervalMS int `yaml:"retry_interval_ms"`
	PollIntervalMS  int `yaml:"poll_interval_ms"`
	PollWindowMS    int `yaml:"poll_window_ms"`

	LogLevel string `yaml:"log_level"`

	Display    string `yaml:"display,omitempty"`
	XAuthority string `yaml:"xauthority,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Position:        string(geometry.DefaultAnchor),
		EdgeInset:       geometry.DefaultInsets.Edge,
		BottomInset:     geometry.DefaultInsets.Bottom,
		NotifierClass:   "dunst",
		NotifierBusName: lifecycle.DefaultBusName,
		BannerRoles:     []string{"notification"},
		OverlayPrefix:   "widget-",
		CycleHotkey:     "Mod4-Mod1-b",
		RetryIntervalMS: 2000,
		PollIntervalMS:  500,
		PollWindowMS:    6500,
		LogLevel:        "info",
	}
}

type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (c *Config) Validate() error {
	if _, err := geometry.ParseAnchor(c.Position); err != nil {
		return &ValidationError{Path: "position", Err: err}
	}
	if c.EdgeInset < 0 {
		return &ValidationError{Path: "edge_inset", Err: fmt.Errorf("edge_inset must be >= 0")}
	}
	if c.BottomInset < 0 {
		return &ValidationError{Path: "bottom_inset", Err: fmt.Errorf("bottom_inset must be >= 0")}
	}
	if c.NotifierClass == "" {
		return &ValidationError{Path: "notifier_class", Err: fmt.Errorf("notifier_class is required")}
	}
	if c.NotifierBusName == "" {
		return &ValidationError{Path: "notifier_bus_name", Err: fmt.Errorf("notifier_bus_name is required")}
	}
	if len(c.BannerRoles) == 0 {
		return &ValidationError{Path: "banner_roles", Err: fmt.Errorf("banner_roles must not be empty")}
	}
	for _, role := range c.BannerRoles {
		if role == "" {
			return &ValidationError{Path: "banner_roles", Err: fmt.Errorf("banner_roles contains an empty role")}
		}
	}
	if c.RetryIntervalMS <= 0 {
		return &ValidationError{Path: "retry_interval_ms", Err: fmt.Errorf("retry_interval_ms must be > 0")}
	}
	if c.PollIntervalMS <= 0 {
		return &ValidationError{Path: "poll_interval_ms", Err: fmt.Errorf("poll_interval_ms must be > 0")}
	}
	if c.PollWindowMS < c.PollIntervalMS {
		return &ValidationError{Path: "poll_window_ms", Err: fmt.Errorf("poll_window_ms must be >= poll_interval_ms")}
	}
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	return nil
}

// Anchor returns the configured anchor. Call Validate first.
func (c *Config) Anchor() geometry.Anchor {
	a, err := geometry.ParseAnchor(c.Position)
	if err != nil {
		return geometry.DefaultAnchor
	}
	return a
}

func (c *Config) Insets() geometry.Insets {
	return geometry.Insets{Edge: c.EdgeInset, Bottom: c.BottomInset}
}

func (c *Config) RetryInterval() time.Duration {
	return time.Duration(c.RetryIntervalMS) * time.Millisecond
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

func (c *Config) PollWindow() time.Duration {
	return time.Duration(c.PollWindowMS) * time.Millisecond
}
