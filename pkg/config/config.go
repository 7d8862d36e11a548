package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (CIRCUITVIEW_*). A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	// CIRCUITVIEW_LOG__LEVEL -> log.level
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Save writes the configuration to the given YAML file path, creating the
// parent directory when needed.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config dir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validFormats = map[string]bool{
	"text": true,
	"json": true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.CleanupDelay < 0 {
		return fmt.Errorf("cleanup_delay must be non-negative")
	}
	if c.Log.Level != "" && !validLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.Log.Level)
	}
	if c.Log.Format != "" && !validFormats[c.Log.Format] {
		return fmt.Errorf("invalid log format %q: must be text or json", c.Log.Format)
	}
	if c.OverrideDir != "" {
		info, err := os.Stat(c.OverrideDir)
		if err != nil {
			return fmt.Errorf("override_dir %s: %w", c.OverrideDir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("override_dir %s is not a directory", c.OverrideDir)
		}
	}
	return nil
}
