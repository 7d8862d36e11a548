package circuitjs

import (
	"embed"
	"io/fs"
)

//go:embed templates/html/*.html templates/js/*
var embeddedTemplates embed.FS

const (
	// TemplateName is the entry template, addressed through the html namespace.
	TemplateName = "html/circuit.html"

	ScriptName     = "circuitview.js"
	StylesheetName = "circuitview.css"
)

// TemplatesFS exposes the bundled base library, laid out by namespace
// (html/, js/).
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

// HTMLFS exposes the base html namespace.
func HTMLFS() fs.FS {
	return mustSub("html")
}

// JSFS exposes the base js namespace: the browser renderer script and its
// stylesheet.
func JSFS() fs.FS {
	return mustSub("js")
}

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(TemplatesFS(), dir)
	if err != nil {
		panic(err)
	}
	return sub
}
