package template_test

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-circuitview/pkg/loader"
	"github.com/goliatone/go-circuitview/pkg/render/template/gotemplate"
	"github.com/goliatone/go-circuitview/pkg/testsupport"
)

func templatesFS() fstest.MapFS {
	return fstest.MapFS{
		"html/hello.html":   {Data: []byte("Hello {{ name }}!")},
		"html/page.html":    {Data: []byte(`<p>{% include "html/part.html" %}</p>`)},
		"html/part.html":    {Data: []byte("part of {{ name }}")},
		"html/global.html":  {Data: []byte("env={{ settings.env }}")},
		"html/raw.html":     {Data: []byte(`<script>{{ include_raw("js/app.js")|safe }}</script>`)},
		"html/broken.html":  {Data: []byte(`{{ include_raw("js/missing.js")|safe }}`)},
		"html/trimmed.html": {Data: []byte(`[{{ name|trim }}]`)},
		"js/app.js":         {Data: []byte("if (a < b) { render('{{ not_a_var }}'); }")},
	}
}

func newEngine(t *testing.T, options ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()

	files := templatesFS()
	chain := loader.Prefix(map[string]pongo2.TemplateLoader{
		"html": loader.Sub(files, "html"),
		"js":   loader.Sub(files, "js"),
	})

	opts := append([]gotemplate.Option{gotemplate.WithLoader(chain), gotemplate.WithIncludeRaw()}, options...)
	engine, err := gotemplate.New(opts...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("html/hello.html", map[string]any{"name": "Ada"}, w)
	})

	if want := "Hello Ada!"; result != want || written != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q (writer %q)", want, result, written)
	}
}

func TestGoTemplateEngine_EscapesByDefault(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("html/hello.html", map[string]any{"name": "<b>Ada</b>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(result, "<b>") {
		t.Fatalf("expected autoescaped output, got %q", result)
	}
}

func TestGoTemplateEngine_IncludeResolvesThroughChain(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("html/page.html", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "<p>part of Ada</p>"; result != want {
		t.Fatalf("want %q, got %q", want, result)
	}
}

func TestGoTemplateEngine_GlobalData(t *testing.T) {
	engine := newEngine(t, gotemplate.WithGlobalData(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}))

	result, err := engine.RenderTemplate("html/global.html", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "env=staging"; result != want {
		t.Fatalf("want %q, got %q", want, result)
	}
}

func TestGoTemplateEngine_IncludeRawIsLiteral(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("html/raw.html", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "<script>if (a < b) { render('{{ not_a_var }}'); }</script>"
	if diff := testsupport.CompareGolden(want, result); diff != "" {
		t.Fatalf("include_raw mismatch (-want +got):\n%s", diff)
	}
}

func TestGoTemplateEngine_IncludeRawMissingFails(t *testing.T) {
	engine := newEngine(t)

	if _, err := engine.RenderTemplate("html/broken.html", nil); err == nil {
		t.Fatalf("expected include_raw of a missing asset to fail")
	}
}

func TestGoTemplateEngine_MissingTemplate(t *testing.T) {
	engine := newEngine(t)

	out, err := engine.RenderTemplate("html/nope.html", nil)
	if !errors.Is(err, loader.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
	if out != "" {
		t.Fatalf("expected no partial output, got %q", out)
	}
}

func TestGoTemplateEngine_Lookup(t *testing.T) {
	engine := newEngine(t)

	data, err := engine.Lookup("js/app.js")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !strings.HasPrefix(string(data), "if (a < b)") {
		t.Fatalf("unexpected raw content %q", data)
	}
	if _, err := engine.Lookup("js/nope.js"); !errors.Is(err, loader.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestGoTemplateEngine_RenderStringAndFilters(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.Render(`{% include "html/trimmed.html" %}`, map[string]any{"name": "  Ada  "})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if want := "[Ada]"; result != want {
		t.Fatalf("want %q, got %q", want, result)
	}
}

func TestGoTemplateEngine_RequiresASource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without loader or fs")
	}
}

func TestGoTemplateEngine_WithFSAndExtension(t *testing.T) {
	engine, err := gotemplate.New(
		gotemplate.WithFS(fstest.MapFS{"hello.tmpl": {Data: []byte("hi {{ name }}")}}),
		gotemplate.WithExtension("tmpl"),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	result, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "hi Ada" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestGoTemplateEngine_DataShapes(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("html/hello.html", pongo2.Context{"name": "Ada"})
	if err != nil {
		t.Fatalf("render context: %v", err)
	}
	if result != "Hello Ada!" {
		t.Fatalf("unexpected output %q", result)
	}

	type page struct{ Name string }
	if _, err := engine.RenderTemplate("html/hello.html", page{Name: "Ada"}); err == nil || !strings.Contains(err.Error(), "unsupported template data") {
		t.Fatalf("expected unsupported data error, got %v", err)
	}
}
