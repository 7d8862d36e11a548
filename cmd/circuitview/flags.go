package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-circuitview/pkg/render"
)

// renderFlags holds per-invocation display toggles. Only flags the user set
// override the config file.
type renderFlags struct {
	cmd *cobra.Command

	zxStyle, condenseCBits, recursive, condensed bool
	dark, systemTheme, transparent, cropParams   bool
	interpretMath                                bool
	minHeight, minWidth, caption                 string
}

func bindRenderFlags(cmd *cobra.Command) *renderFlags {
	f := &renderFlags{cmd: cmd}
	fs := cmd.Flags()
	fs.BoolVar(&f.zxStyle, "zx-style", false, "draw gates in ZX-calculus style")
	fs.BoolVar(&f.condenseCBits, "condense-c-bits", false, "draw classical registers as one wire")
	fs.BoolVar(&f.recursive, "recursive", false, "expand boxed sub-circuits")
	fs.BoolVar(&f.condensed, "condensed", true, "pack commands into as few columns as possible")
	fs.BoolVar(&f.dark, "dark", false, "use the dark theme")
	fs.BoolVar(&f.systemTheme, "system-theme", false, "follow the system colour scheme")
	fs.BoolVar(&f.transparent, "transparent", false, "transparent background")
	fs.BoolVar(&f.cropParams, "crop-params", false, "shorten long gate parameters")
	fs.BoolVar(&f.interpretMath, "interpret-math", false, "typeset parameters as math")
	fs.StringVar(&f.minHeight, "min-height", "", "minimum frame height (CSS length)")
	fs.StringVar(&f.minWidth, "min-width", "", "minimum frame width (CSS length)")
	fs.StringVar(&f.caption, "caption", "", "Markdown caption shown above the circuit")
	return f
}

func (f renderFlags) options() render.Options {
	var opts render.Options
	if f.cmd == nil {
		return opts
	}
	changed := f.cmd.Flags().Changed
	for _, toggle := range []struct {
		name  string
		value bool
		dst   **bool
	}{
		{"zx-style", f.zxStyle, &opts.ZXStyle},
		{"condense-c-bits", f.condenseCBits, &opts.CondenseCBits},
		{"recursive", f.recursive, &opts.Recursive},
		{"condensed", f.condensed, &opts.Condensed},
		{"dark", f.dark, &opts.DarkTheme},
		{"system-theme", f.systemTheme, &opts.SystemTheme},
		{"transparent", f.transparent, &opts.TransparentBg},
		{"crop-params", f.cropParams, &opts.CropParams},
		{"interpret-math", f.interpretMath, &opts.InterpretMath},
	} {
		if changed(toggle.name) {
			*toggle.dst = render.Bool(toggle.value)
		}
	}
	opts.MinHeight = f.minHeight
	opts.MinWidth = f.minWidth
	opts.Caption = f.caption
	return opts
}
