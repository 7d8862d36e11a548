package circuit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies a serialised circuit encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension; anything that is
// not .yaml/.yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads a circuit file from disk.
func Load(path string) (*Circuit, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("circuit: path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("circuit: read %s: %w", path, err)
	}
	c, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("circuit: parse %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a circuit. Unknown JSON fields are rejected so typos in hand
// written fixtures surface early.
func Parse(data []byte, format Format) (*Circuit, error) {
	var c Circuit
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil {
			return nil, fmt.Errorf("circuit: decode yaml: %w", err)
		}
	case FormatJSON, "":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&c); err != nil {
			return nil, fmt.Errorf("circuit: decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("circuit: unsupported format %q", format)
	}
	return &c, nil
}

// Marshal encodes c in the requested format.
func Marshal(c *Circuit, format Format) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("circuit: circuit is nil")
	}
	switch format {
	case FormatYAML:
		return yaml.Marshal(c.normalized())
	case FormatJSON, "":
		return json.MarshalIndent(c.normalized(), "", "  ")
	default:
		return nil, fmt.Errorf("circuit: unsupported format %q", format)
	}
}
