package circuitjs

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-circuitview/pkg/circuit"
	"github.com/goliatone/go-circuitview/pkg/render"
	rendertemplate "github.com/goliatone/go-circuitview/pkg/render/template"
)

// KaTeXStylesheet is linked by the base head template when math
// interpretation is on.
const KaTeXStylesheet = "https://cdn.jsdelivr.net/npm/katex@0.16.9/dist/katex.min.css"

const rendererName = "circuit renderer"

// uidNamespace seeds the name-based UUIDs that label rendered containers.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/goliatone/go-circuitview"))

// Option customises the renderer configuration.
type Option func(*config)

type config struct {
	overrides        []fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	options          render.Options
}

// WithOverrideFS layers an override tree (static/ for html, dist/ for js) over
// the bundled templates. Trees added earlier take precedence.
func WithOverrideFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.overrides = append(cfg.overrides, files)
		}
	}
}

// WithOverrideDir loads the override tree from a directory on disk.
func WithOverrideDir(path string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(path) == "" {
			return
		}
		cfg.overrides = append(cfg.overrides, os.DirFS(path))
	}
}

// WithTemplateRenderer injects a prebuilt environment. Override options are
// ignored when one is supplied.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithRenderOptions overlays display options on the defaults.
func WithRenderOptions(opts render.Options) Option {
	return func(cfg *config) {
		cfg.options = cfg.options.Merge(opts)
	}
}

// Renderer turns circuits into HTML through a shared render environment.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	options   render.Options
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{options: render.DefaultOptions()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := NewEnvironment(cfg.overrides)
		if err != nil {
			return nil, fmt.Errorf("circuit renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	return &Renderer{templates: templates, options: cfg.options}, nil
}

// Name identifies the renderer in error messages.
func (r *Renderer) Name() string {
	return "circuitjs"
}

// ContentType returns the MIME type for generated documents.
func (r *Renderer) ContentType() string {
	return render.ContentType
}

// Options returns the display options in effect.
func (r *Renderer) Options() render.Options {
	return r.options
}

// Environment returns the shared render environment.
func (r *Renderer) Environment() rendertemplate.TemplateRenderer {
	return r.templates
}

// WithOptions returns a renderer sharing this one's environment with opts
// overlaid on its display options. The receiver is left untouched.
func (r *Renderer) WithOptions(opts render.Options) *Renderer {
	return &Renderer{templates: r.templates, options: r.options.Merge(opts)}
}

// RenderAsHTML converts src and renders it. With inline set the output is a
// fragment for a notebook cell; otherwise it is a standalone document. Both
// forms carry the same circuit payload, options and uid.
func (r *Renderer) RenderAsHTML(ctx context.Context, src circuit.Source, inline bool) (string, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return "", err
		}
	}
	if r == nil || r.templates == nil {
		return "", fmt.Errorf("circuit renderer: template renderer is nil")
	}
	if src == nil {
		return "", render.Wrap(rendererName, render.StageConvert, fmt.Errorf("%w: source is nil", circuit.ErrInvalidCircuit))
	}

	ir, err := src.RenderIR()
	if err != nil {
		return "", render.Wrap(rendererName, render.StageConvert, err)
	}

	data, err := r.templateData(ir, inline)
	if err != nil {
		return "", err
	}

	out, err := r.templates.RenderTemplate(TemplateName, data)
	if err != nil {
		return "", render.Wrap(rendererName, render.StageTemplate, err)
	}
	return out, nil
}

func (r *Renderer) templateData(ir circuit.IR, inline bool) (map[string]any, error) {
	uid := RenderUID(ir.Payload)

	flags, err := json.Marshal(r.options.DisplayFlags())
	if err != nil {
		return nil, render.Wrap(rendererName, render.StageConvert, err)
	}

	caption, err := renderCaption(r.options.Caption)
	if err != nil {
		return nil, render.Wrap(rendererName, render.StageCaption, err)
	}

	title := strings.TrimSpace(ir.Name)
	if title == "" {
		title = "Circuit"
	}

	themeCtx := buildThemeContext(r.options.Theme, uid)

	return map[string]any{
		"circuit_json":    string(ir.Payload),
		"uid":             uid,
		"jupyter":         inline,
		"display_options": string(flags),
		"min_height":      valueOr(r.options.MinHeight, render.DefaultMinHeight),
		"min_width":       valueOr(r.options.MinWidth, render.DefaultMinWidth),
		"title":           title,
		"caption_html":    caption,
		"dark":            render.Enabled(r.options.DarkTheme),
		"interpret_math":  render.Enabled(r.options.InterpretMath),
		"katex_css":       KaTeXStylesheet,
		"theme_name":      themeCtx.Name,
		"theme_variant":   themeCtx.Variant,
		"theme_css":       themeCtx.CSS,
		"summary": map[string]any{
			"qubits":   ir.Qubits,
			"bits":     ir.Bits,
			"commands": ir.Commands,
		},
	}, nil
}

// RenderUID derives the container uid from the circuit payload, so the same
// circuit always renders to the same bytes.
func RenderUID(payload []byte) string {
	return uuid.NewSHA1(uidNamespace, payload).String()
}

func valueOr(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
