package template

import (
	"io"
)

// TemplateRenderer is the environment contract renderers rely on. Lookups go
// through the same loader chain the templates resolve against, so a name that
// renders is also a name that Lookup can read.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	Lookup(name string) ([]byte, error)
}
