package render

import (
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Default frame sizing applied when Options leaves it unset.
const (
	DefaultMinHeight = "400px"
	DefaultMinWidth  = "500px"
)

// Options describe how the browser-side renderer should draw a circuit. The
// boolean toggles are tri-state: nil leaves the choice to the renderer, and
// only toggles that are set reach the page.
type Options struct {
	// ZXStyle draws gates in ZX-calculus style.
	ZXStyle *bool `json:"zx_style,omitempty" yaml:"zx_style,omitempty" koanf:"zx_style"`
	// CondenseCBits draws classical registers as a single wire.
	CondenseCBits *bool `json:"condense_c_bits,omitempty" yaml:"condense_c_bits,omitempty" koanf:"condense_c_bits"`
	// Recursive expands boxed sub-circuits inline.
	Recursive *bool `json:"recursive,omitempty" yaml:"recursive,omitempty" koanf:"recursive"`
	// Condensed packs commands into as few columns as possible.
	Condensed     *bool `json:"condensed,omitempty" yaml:"condensed,omitempty" koanf:"condensed"`
	DarkTheme     *bool `json:"dark_theme,omitempty" yaml:"dark_theme,omitempty" koanf:"dark_theme"`
	SystemTheme   *bool `json:"system_theme,omitempty" yaml:"system_theme,omitempty" koanf:"system_theme"`
	TransparentBg *bool `json:"transparent_bg,omitempty" yaml:"transparent_bg,omitempty" koanf:"transparent_bg"`
	// CropParams shortens long parameter expressions in gate labels.
	CropParams *bool `json:"crop_params,omitempty" yaml:"crop_params,omitempty" koanf:"crop_params"`
	// InterpretMath typesets parameters as math.
	InterpretMath *bool `json:"interpret_math,omitempty" yaml:"interpret_math,omitempty" koanf:"interpret_math"`

	MinHeight string `json:"min_height,omitempty" yaml:"min_height,omitempty" koanf:"min_height"`
	MinWidth  string `json:"min_width,omitempty" yaml:"min_width,omitempty" koanf:"min_width"`

	// Caption is Markdown shown above the circuit. It is rendered and
	// sanitised before reaching the page.
	Caption string `json:"caption,omitempty" yaml:"caption,omitempty" koanf:"caption"`

	// Theme carries go-theme tokens; they become CSS custom properties on the
	// circuit container.
	Theme *theme.RendererConfig `json:"-" yaml:"-" koanf:"-"`
}

// Bool returns a pointer to v for the tri-state toggles.
func Bool(v bool) *bool {
	return &v
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		MinHeight: DefaultMinHeight,
		MinWidth:  DefaultMinWidth,
	}
}

// Merge overlays the set fields of other on o.
func (o Options) Merge(other Options) Options {
	out := o
	for _, pair := range []struct {
		dst **bool
		src *bool
	}{
		{&out.ZXStyle, other.ZXStyle},
		{&out.CondenseCBits, other.CondenseCBits},
		{&out.Recursive, other.Recursive},
		{&out.Condensed, other.Condensed},
		{&out.DarkTheme, other.DarkTheme},
		{&out.SystemTheme, other.SystemTheme},
		{&out.TransparentBg, other.TransparentBg},
		{&out.CropParams, other.CropParams},
		{&out.InterpretMath, other.InterpretMath},
	} {
		if pair.src != nil {
			v := *pair.src
			*pair.dst = &v
		}
	}
	if strings.TrimSpace(other.MinHeight) != "" {
		out.MinHeight = strings.TrimSpace(other.MinHeight)
	}
	if strings.TrimSpace(other.MinWidth) != "" {
		out.MinWidth = strings.TrimSpace(other.MinWidth)
	}
	if strings.TrimSpace(other.Caption) != "" {
		out.Caption = other.Caption
	}
	if other.Theme != nil {
		out.Theme = other.Theme
	}
	return out
}

// DisplayFlags returns the toggles that are set, keyed by their wire name.
// The browser renderer reads this object as its display options.
func (o Options) DisplayFlags() map[string]bool {
	flags := make(map[string]bool)
	for name, value := range map[string]*bool{
		"zx_style":        o.ZXStyle,
		"condense_c_bits": o.CondenseCBits,
		"recursive":       o.Recursive,
		"condensed":       o.Condensed,
		"dark_theme":      o.DarkTheme,
		"system_theme":    o.SystemTheme,
		"transparent_bg":  o.TransparentBg,
		"crop_params":     o.CropParams,
		"interpret_math":  o.InterpretMath,
	} {
		if value != nil {
			flags[name] = *value
		}
	}
	return flags
}

// Enabled reports whether a tri-state toggle is explicitly on.
func Enabled(v *bool) bool {
	return v != nil && *v
}
