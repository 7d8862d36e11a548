package gotemplate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-circuitview/pkg/loader"
	"github.com/goliatone/go-circuitview/pkg/render/template"
)

// IncludeRawFunc is the template function name registered by WithIncludeRaw.
const IncludeRawFunc = "include_raw"

// Option configures the environment before construction.
type Option func(*config)

type config struct {
	name       string
	loader     pongo2.TemplateLoader
	templates  fs.FS
	extension  string
	includeRaw bool
	globalData map[string]any
}

// WithName labels the underlying pongo2 template set.
func WithName(name string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cfg.name = trimmed
		}
	}
}

// WithLoader resolves templates through l. It takes precedence over WithFS,
// which becomes a fallback.
func WithLoader(l pongo2.TemplateLoader) Option {
	return func(cfg *config) {
		cfg.loader = l
	}
}

// WithFS configures the environment to load templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension appends ext to template names that do not already carry it.
// Circuit templates are addressed by full name, so the default is empty.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithIncludeRaw exposes include_raw(name), which returns the literal content
// of name resolved through the environment loader. Pair it with the safe
// filter to inline scripts and stylesheets:
//
//	<script>{{ include_raw("js/circuitview.js")|safe }}</script>
func WithIncludeRaw() Option {
	return func(cfg *config) {
		cfg.includeRaw = true
	}
}

// WithGlobalData seeds global context values available to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// Engine is the render environment: one loader chain, one pongo2 template set
// and the registered extensions. Nothing about it changes after New returns,
// so a single Engine is shared by every render call.
type Engine struct {
	mu sync.RWMutex

	loader      pongo2.TemplateLoader
	templateSet *pongo2.TemplateSet
	templates   map[string]*pongo2.Template
	tplExt      string
}

// Ensure Engine implements the TemplateRenderer interface.
var _ template.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine using the provided configuration options.
func New(options ...Option) (*Engine, error) {
	cfg := &config{
		name: "circuitview",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.loader == nil && cfg.templates == nil {
		return nil, errors.New("gotemplate: need to provide a loader or fs.FS")
	}

	var links []pongo2.TemplateLoader
	if cfg.loader != nil {
		links = append(links, cfg.loader)
	}
	if cfg.templates != nil {
		links = append(links, loader.FS(cfg.templates))
	}

	var chain pongo2.TemplateLoader
	if len(links) == 1 {
		chain = links[0]
	} else {
		chain = loader.Choice(links...)
	}

	engine := &Engine{
		loader:      chain,
		templateSet: pongo2.NewSet(cfg.name, chain),
		templates:   make(map[string]*pongo2.Template),
		tplExt:      cfg.extension,
	}
	engine.templateSet.Globals = make(pongo2.Context)
	registerDefaultFilters()

	if err := engine.applyGlobals(cfg.globalData); err != nil {
		return nil, fmt.Errorf("gotemplate: apply global data: %w", err)
	}
	if cfg.includeRaw {
		engine.templateSet.Globals[IncludeRawFunc] = engine.includeRaw
	}

	return engine, nil
}

// Render treats name as inline template content when it looks like one and as
// a template name otherwise.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	if isTemplateContent(name) {
		return e.RenderString(name, data, out...)
	}
	return e.RenderTemplate(name, data, out...)
}

// RenderTemplate resolves name through the loader chain and executes it.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	templatePath := name
	if e.tplExt != "" && !strings.HasSuffix(templatePath, e.tplExt) {
		templatePath += e.tplExt
	}

	tmpl, err := e.getTemplate(templatePath)
	if err != nil {
		return "", err
	}

	viewContext, err := convertToContext(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: convert data: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(viewContext, &buf); err != nil {
		return "", fmt.Errorf("gotemplate: execute template %q: %w", templatePath, err)
	}

	return writeOut(buf.String(), out)
}

// RenderString parses and executes templateContent. Includes inside it still
// resolve through the loader chain.
func (e *Engine) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("gotemplate: engine is nil")
	}

	tmpl, err := e.templateSet.FromString(templateContent)
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse template string: %w", err)
	}

	viewContext, err := convertToContext(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: convert data: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(viewContext, &buf); err != nil {
		return "", fmt.Errorf("gotemplate: execute template string: %w", err)
	}

	return writeOut(buf.String(), out)
}

// Lookup returns the raw content of name without template processing.
func (e *Engine) Lookup(name string) ([]byte, error) {
	if e == nil || e.loader == nil {
		return nil, errors.New("gotemplate: engine is nil")
	}
	return loader.Read(e.loader, name)
}

func (e *Engine) includeRaw(name string) (string, error) {
	data, err := e.Lookup(name)
	if err != nil {
		return "", fmt.Errorf("gotemplate: include_raw %q: %w", name, err)
	}
	return string(data), nil
}

func (e *Engine) applyGlobals(data map[string]any) error {
	if len(data) == 0 {
		return nil
	}
	globalCtx, err := convertToContext(data)
	if err != nil {
		return err
	}
	e.templateSet.Globals.Update(globalCtx)
	return nil
}

func (e *Engine) getTemplate(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}

	tmpl, err := e.templateSet.FromFile(path)
	if err != nil {
		// pongo2 flattens loader errors; ask the chain directly so a missing
		// name stays matchable with errors.Is.
		if _, lookupErr := e.loader.Get(path); lookupErr != nil {
			return nil, fmt.Errorf("gotemplate: load template %q: %w", path, lookupErr)
		}
		return nil, fmt.Errorf("gotemplate: load template %q: %w", path, err)
	}

	e.templates[path] = tmpl
	return tmpl, nil
}

func writeOut(rendered string, out []io.Writer) (string, error) {
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

func isTemplateContent(s string) bool {
	return strings.Contains(s, "{{") || strings.Contains(s, "{%")
}

// convertToContext accepts the map shapes renderers pass. Nested values are
// handed to pongo2 as they are.
func convertToContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return v, nil
	case map[string]any:
		out := make(pongo2.Context, len(v))
		for key, value := range v {
			if key = strings.TrimSpace(key); key != "" {
				out[key] = value
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported template data %T", data)
	}
}

func registerDefaultFilters() {
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", filterTrim)
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}
