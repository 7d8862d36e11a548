package config

import (
	"time"

	"github.com/goliatone/go-circuitview/pkg/render"
)

// Config is the on-disk configuration for the circuitview CLI and for
// programs that want the same defaults.
type Config struct {
	// Render holds the display options applied to every render.
	Render render.Options `yaml:"render" koanf:"render"`
	// OverrideDir is a directory layered over the bundled templates. Its
	// static/ subtree overrides html templates and dist/ overrides scripts.
	OverrideDir string `yaml:"override_dir,omitempty" koanf:"override_dir"`
	// CleanupDelay is how long served files are kept after display.
	CleanupDelay time.Duration `yaml:"cleanup_delay" koanf:"cleanup_delay"`
	// Offline selects the inlined offline renderer and the file-backed
	// notebook display. When false the base renderer and display are used.
	Offline bool      `yaml:"offline" koanf:"offline"`
	Log     LogConfig `yaml:"log" koanf:"log"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Format string `yaml:"format" koanf:"format"`
}
