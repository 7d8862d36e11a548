package display

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/browser"

	"github.com/goliatone/go-circuitview/pkg/circuit"
	"github.com/goliatone/go-circuitview/pkg/render"
)

// DefaultCleanupDelay is how long a served file is kept after the display
// request. It is a best-effort allowance for the front end to fetch the file,
// not an acknowledgement that it did.
const DefaultCleanupDelay = 5 * time.Second

// Display is what a renderer exposes to notebook and desktop callers.
type Display interface {
	// RenderCircuitAsHTML renders src. When jupyter is set the implementation
	// decides whether to return inline HTML or to display it directly, in
	// which case the returned string is empty.
	RenderCircuitAsHTML(ctx context.Context, src circuit.Source, jupyter bool) (string, error)
	// RenderCircuitJupyter is RenderCircuitAsHTML with jupyter set.
	RenderCircuitJupyter(ctx context.Context, src circuit.Source) (string, error)
	// ViewBrowser opens the standalone document in the default browser.
	ViewBrowser(ctx context.Context, src circuit.Source) error
}

// Opener opens a local file in the user's default handler.
type Opener func(path string) error

// Option configures Base, Offline and ViewBrowser.
type Option func(*config)

type config struct {
	resolver     Resolver
	workDir      string
	tempDir      string
	cleanupDelay time.Duration
	sleep        SleepFunc
	open         Opener
	logger       *slog.Logger
}

func newConfig(options []Option) config {
	cfg := config{
		resolver:     Unavailable,
		cleanupDelay: DefaultCleanupDelay,
		sleep:        Sleep,
		open:         browser.OpenFile,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return cfg
}

// WithResolver supplies the notebook capability lookup.
func WithResolver(resolver Resolver) Option {
	return func(cfg *config) {
		if resolver != nil {
			cfg.resolver = resolver
		}
	}
}

// WithNotebook is WithResolver(Static(nb)).
func WithNotebook(nb Notebook) Option {
	return WithResolver(Static(nb))
}

// WithWorkDir sets where notebook artifacts are written. Defaults to the
// process working directory, which is where the notebook front end resolves
// relative iframe sources from.
func WithWorkDir(dir string) Option {
	return func(cfg *config) {
		cfg.workDir = dir
	}
}

// WithTempDir sets where ViewBrowser writes its document. Defaults to
// os.TempDir().
func WithTempDir(dir string) Option {
	return func(cfg *config) {
		cfg.tempDir = dir
	}
}

// WithCleanupDelay overrides DefaultCleanupDelay. Zero removes the file as
// soon as the display call returns.
func WithCleanupDelay(d time.Duration) Option {
	return func(cfg *config) {
		if d >= 0 {
			cfg.cleanupDelay = d
		}
	}
}

// WithSleep replaces the wait used before cleanup.
func WithSleep(sleep SleepFunc) Option {
	return func(cfg *config) {
		if sleep != nil {
			cfg.sleep = sleep
		}
	}
}

// WithOpener replaces the browser launcher.
func WithOpener(open Opener) Option {
	return func(cfg *config) {
		if open != nil {
			cfg.open = open
		}
	}
}

// WithLogger sets the logger used for artifact lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Base returns HTML strings and never touches a notebook.
type Base struct {
	renderer render.Renderer
	cfg      config
}

var _ Display = (*Base)(nil)

// NewBase wraps renderer.
func NewBase(renderer render.Renderer, options ...Option) *Base {
	return &Base{renderer: renderer, cfg: newConfig(options)}
}

// RenderCircuitAsHTML returns the rendered HTML, inline when jupyter is set.
func (b *Base) RenderCircuitAsHTML(ctx context.Context, src circuit.Source, jupyter bool) (string, error) {
	if b.renderer == nil {
		return "", fmt.Errorf("display: renderer is nil")
	}
	return b.renderer.RenderAsHTML(ctx, src, jupyter)
}

// RenderCircuitJupyter returns the inline HTML fragment.
func (b *Base) RenderCircuitJupyter(ctx context.Context, src circuit.Source) (string, error) {
	return b.RenderCircuitAsHTML(ctx, src, true)
}

// ViewBrowser opens the standalone document in the default browser.
func (b *Base) ViewBrowser(ctx context.Context, src circuit.Source) error {
	return viewBrowser(ctx, b.renderer, src, b.cfg)
}

// Offline serves notebook output from a temporary file through an iframe.
type Offline struct {
	renderer render.Renderer
	cfg      config
	notebook *lazyNotebook
}

var _ Display = (*Offline)(nil)

// NewOffline wraps renderer. The notebook capability comes from
// WithResolver / WithNotebook and is resolved on first notebook use.
func NewOffline(renderer render.Renderer, options ...Option) *Offline {
	cfg := newConfig(options)
	return &Offline{
		renderer: renderer,
		cfg:      cfg,
		notebook: newLazyNotebook(cfg.resolver),
	}
}

// RenderCircuitAsHTML always renders the standalone document. Without jupyter
// it returns it. With jupyter it displays it through an iframe and returns
// an empty string.
func (o *Offline) RenderCircuitAsHTML(ctx context.Context, src circuit.Source, jupyter bool) (string, error) {
	if o.renderer == nil {
		return "", fmt.Errorf("display: renderer is nil")
	}
	doc, err := o.renderer.RenderAsHTML(ctx, src, false)
	if err != nil {
		return "", err
	}
	if !jupyter {
		return doc, nil
	}
	return "", o.displayInline(ctx, doc)
}

// RenderCircuitJupyter displays src in the current notebook cell.
func (o *Offline) RenderCircuitJupyter(ctx context.Context, src circuit.Source) (string, error) {
	return o.RenderCircuitAsHTML(ctx, src, true)
}

// ViewBrowser opens the standalone document in the default browser.
func (o *Offline) ViewBrowser(ctx context.Context, src circuit.Source) error {
	return viewBrowser(ctx, o.renderer, src, o.cfg)
}

func (o *Offline) displayInline(ctx context.Context, doc string) error {
	nb, err := o.notebook.get()
	if err != nil {
		return err
	}

	dir, err := resolveDir(o.cfg.workDir, os.Getwd)
	if err != nil {
		return err
	}

	a, err := createArtifact(dir, doc)
	if err != nil {
		return err
	}
	defer a.release(ctx, o.cfg.cleanupDelay, o.cfg.sleep, o.cfg.logger)

	src, err := a.relativeTo(dir)
	if err != nil {
		return err
	}
	o.cfg.logger.Debug("display artifact written", slog.String("path", a.path), slog.Int("bytes", len(doc)))

	if suppressor, ok := nb.(WarningSuppressor); ok {
		restore := suppressor.SuppressWarnings()
		if restore != nil {
			defer restore()
		}
	}

	if err := nb.DisplayHTML(IFrame(src)); err != nil {
		return fmt.Errorf("display: notebook display: %w", err)
	}
	return nil
}

// IFrame returns the element that points the notebook at a served document.
func IFrame(src string) string {
	return fmt.Sprintf(
		`<iframe src="%s" width="100%%" height="200px" style="border: none; outline: none; resize: vertical; overflow: auto"></iframe>`,
		html.EscapeString(src),
	)
}

// ViewBrowser renders src as a standalone document, writes it to a temporary
// file, opens it in the default browser and removes it after the cleanup
// delay.
func ViewBrowser(ctx context.Context, renderer render.Renderer, src circuit.Source, options ...Option) error {
	return viewBrowser(ctx, renderer, src, newConfig(options))
}

func viewBrowser(ctx context.Context, renderer render.Renderer, src circuit.Source, cfg config) error {
	if renderer == nil {
		return fmt.Errorf("display: renderer is nil")
	}
	doc, err := renderer.RenderAsHTML(ctx, src, false)
	if err != nil {
		return err
	}

	dir, err := resolveDir(cfg.tempDir, func() (string, error) { return os.TempDir(), nil })
	if err != nil {
		return err
	}

	a, err := createArtifact(dir, doc)
	if err != nil {
		return err
	}
	defer a.release(ctx, cfg.cleanupDelay, cfg.sleep, cfg.logger)

	abs, err := filepath.Abs(a.path)
	if err != nil {
		return fmt.Errorf("display: absolute path: %w", err)
	}
	if err := cfg.open(abs); err != nil {
		return fmt.Errorf("display: open browser: %w", err)
	}
	return nil
}

func resolveDir(configured string, fallback func() (string, error)) (string, error) {
	if configured != "" {
		return configured, nil
	}
	dir, err := fallback()
	if err != nil {
		return "", fmt.Errorf("display: resolve directory: %w", err)
	}
	return dir, nil
}
