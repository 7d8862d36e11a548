// Package loader resolves namespace-qualified template and asset names
// ("html/circuit.html", "js/circuitview.js") against layered sources.
//
// Every loader satisfies pongo2.TemplateLoader so a chain built here can back
// a template set directly. Lookups are lazy: nothing is read until a name is
// requested, and only the requested file is opened.
//
// A typical chain prefers a local override tree and falls back to the
// bundled defaults:
//
//	loader.Prefix(map[string]pongo2.TemplateLoader{
//		"html": loader.Choice(loader.Dir("overrides/static"), loader.FS(baseHTML)),
//		"js":   loader.Choice(loader.Dir("overrides/dist"), loader.FS(baseJS)),
//	})
package loader
