package circuitjs

import (
	"io/fs"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-circuitview/pkg/loader"
	"github.com/goliatone/go-circuitview/pkg/render/template/gotemplate"
)

// Override tree layout: html overrides live under static/, js and css
// overrides under dist/.
const (
	OverrideHTMLDir = "static"
	OverrideJSDir   = "dist"
)

// NewLoader builds the namespaced lookup chain. Each namespace tries the
// override trees in order and falls back to the bundled base library.
// Overrides may be nil or only partially populated.
func NewLoader(overrides ...fs.FS) *loader.PrefixLoader {
	html := make([]pongo2.TemplateLoader, 0, len(overrides)+1)
	js := make([]pongo2.TemplateLoader, 0, len(overrides)+1)
	for _, override := range overrides {
		if override == nil {
			continue
		}
		html = append(html, loader.Sub(override, OverrideHTMLDir))
		js = append(js, loader.Sub(override, OverrideJSDir))
	}
	html = append(html, loader.FS(HTMLFS()))
	js = append(js, loader.FS(JSFS()))

	return loader.Prefix(map[string]pongo2.TemplateLoader{
		"html": loader.Choice(html...),
		"js":   loader.Choice(js...),
	})
}

// NewEnvironment builds the render environment over NewLoader(overrides...)
// with the include_raw extension enabled.
func NewEnvironment(overrides []fs.FS, options ...gotemplate.Option) (*gotemplate.Engine, error) {
	opts := []gotemplate.Option{
		gotemplate.WithName("circuitjs"),
		gotemplate.WithLoader(NewLoader(overrides...)),
		gotemplate.WithIncludeRaw(),
	}
	opts = append(opts, options...)
	return gotemplate.New(opts...)
}
