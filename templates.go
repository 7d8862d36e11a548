package circuitview

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-circuitview/pkg/renderers/circuitjs"
)

//go:embed static/*.html dist/*.css
var embeddedOverrides embed.FS

// EmbeddedTemplates exposes the bundled base library (html/ and js/
// namespaces) so callers can reuse or extend it without importing the
// renderer package directly.
func EmbeddedTemplates() fs.FS {
	return circuitjs.TemplatesFS()
}

// OverrideFS exposes the offline override tier: static/ holds html templates
// and dist/ holds scripts and stylesheets. Names it lacks resolve against
// EmbeddedTemplates.
func OverrideFS() fs.FS {
	return embeddedOverrides
}
