package render

import (
	"context"

	"github.com/goliatone/go-circuitview/pkg/circuit"
)

// ContentType is the MIME type of every rendered document.
const ContentType = "text/html; charset=utf-8"

// Renderer converts a circuit into HTML. inline selects the fragment form
// meant for embedding in a notebook cell over a standalone document.
// Implementations are pure: the same source, options and flag always yield the
// same bytes.
type Renderer interface {
	RenderAsHTML(ctx context.Context, src circuit.Source, inline bool) (string, error)
}
