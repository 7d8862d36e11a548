// Package circuitview renders quantum circuits as self-contained HTML and
// displays them in notebooks or the desktop browser.
//
// The package layers an offline override tier (static/ and dist/, embedded)
// over the bundled templates, so rendered pages carry their script and styles
// inline and never reach for a CDN.
package circuitview

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-circuitview/pkg/circuit"
	"github.com/goliatone/go-circuitview/pkg/display"
	"github.com/goliatone/go-circuitview/pkg/render"
	"github.com/goliatone/go-circuitview/pkg/renderers/circuitjs"
)

// Option configures NewRenderer and NewOffline.
type Option func(*options)

type options struct {
	overrides     []fs.FS
	renderOptions render.Options
	display       []display.Option
}

// WithOverrideDir layers a directory over the offline tier. Its static/ and
// dist/ subtrees take precedence over the embedded files.
func WithOverrideDir(dir string) Option {
	return func(o *options) {
		if strings.TrimSpace(dir) != "" {
			o.overrides = append(o.overrides, os.DirFS(dir))
		}
	}
}

// WithOverrideFS layers files over the offline tier.
func WithOverrideFS(files fs.FS) Option {
	return func(o *options) {
		if files != nil {
			o.overrides = append(o.overrides, files)
		}
	}
}

// WithRenderOptions overlays display options on the defaults.
func WithRenderOptions(opts render.Options) Option {
	return func(o *options) {
		o.renderOptions = o.renderOptions.Merge(opts)
	}
}

// WithDisplayOptions forwards options to the display adapter.
func WithDisplayOptions(opts ...display.Option) Option {
	return func(o *options) {
		o.display = append(o.display, opts...)
	}
}

// WithNotebookResolver sets how the notebook display capability is found.
func WithNotebookResolver(resolver display.Resolver) Option {
	return WithDisplayOptions(display.WithResolver(resolver))
}

// WithCleanupDelay sets how long served files outlive the display call.
func WithCleanupDelay(d time.Duration) Option {
	return WithDisplayOptions(display.WithCleanupDelay(d))
}

// WithLogger sets the logger used for file lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return WithDisplayOptions(display.WithLogger(logger))
}

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// NewRenderer builds a renderer over user overrides, then the embedded
// offline tier, then the bundled base library.
func NewRenderer(opts ...Option) (*circuitjs.Renderer, error) {
	return newRenderer(collect(opts))
}

func newRenderer(o options) (*circuitjs.Renderer, error) {
	rendererOpts := make([]circuitjs.Option, 0, len(o.overrides)+2)
	for _, override := range o.overrides {
		rendererOpts = append(rendererOpts, circuitjs.WithOverrideFS(override))
	}
	rendererOpts = append(rendererOpts,
		circuitjs.WithOverrideFS(OverrideFS()),
		circuitjs.WithRenderOptions(o.renderOptions),
	)
	return circuitjs.New(rendererOpts...)
}

// NewOffline builds the file-backed notebook display over NewRenderer.
func NewOffline(opts ...Option) (*display.Offline, error) {
	o := collect(opts)
	renderer, err := newRenderer(o)
	if err != nil {
		return nil, err
	}
	return display.NewOffline(renderer, o.display...), nil
}

var defaultOffline = sync.OnceValues(func() (*display.Offline, error) {
	return NewOffline()
})

// RenderCircuitAsHTML renders src with the default offline display. With
// jupyter set it needs a notebook capability, which the default display does
// not have; use NewOffline with WithNotebookResolver, or the notebook package.
func RenderCircuitAsHTML(ctx context.Context, src circuit.Source, jupyter bool) (string, error) {
	d, err := defaultOffline()
	if err != nil {
		return "", err
	}
	return d.RenderCircuitAsHTML(ctx, src, jupyter)
}

// RenderCircuitJupyter is RenderCircuitAsHTML with jupyter set.
func RenderCircuitJupyter(ctx context.Context, src circuit.Source) (string, error) {
	return RenderCircuitAsHTML(ctx, src, true)
}

// ViewBrowser opens src in the default browser.
func ViewBrowser(ctx context.Context, src circuit.Source) error {
	d, err := defaultOffline()
	if err != nil {
		return err
	}
	return d.ViewBrowser(ctx, src)
}
