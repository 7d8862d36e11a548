package config

import (
	"os"
	"path/filepath"

	"github.com/goliatone/go-circuitview/pkg/display"
	"github.com/goliatone/go-circuitview/pkg/render"
)

// EnvPrefix marks environment variables that override file values.
// CIRCUITVIEW_RENDER__DARK_THEME=true sets render.dark_theme.
const EnvPrefix = "CIRCUITVIEW_"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Render:       render.DefaultOptions(),
		CleanupDelay: display.DefaultCleanupDelay,
		Offline:      true,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns the per-user config file location, falling back to a
// file in the working directory when no user config dir exists.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "circuitview.yaml"
	}
	return filepath.Join(dir, "circuitview", "config.yaml")
}
