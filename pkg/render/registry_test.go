package render_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-circuitview/pkg/circuit"
	"github.com/goliatone/go-circuitview/pkg/render"
)

type fixedRenderer string

func (f fixedRenderer) RenderAsHTML(context.Context, circuit.Source, bool) (string, error) {
	return string(f), nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := render.NewRegistry()
	reg.MustRegister("offline", fixedRenderer("offline"))
	reg.MustRegister("base", fixedRenderer("base"))

	if diff := cmp.Diff([]string{"base", "offline"}, reg.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	got, err := reg.Get("offline")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	html, _ := got.RenderAsHTML(context.Background(), nil, false)
	if html != "offline" {
		t.Fatalf("unexpected renderer %q", html)
	}
	if !reg.Has("base") || reg.Has("missing") {
		t.Fatalf("Has reported wrong membership")
	}
}

func TestRegistry_RejectsInvalidRegistrations(t *testing.T) {
	reg := render.NewRegistry()
	if err := reg.Register("", fixedRenderer("x")); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if err := reg.Register("x", nil); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
	reg.MustRegister("x", fixedRenderer("x"))
	if err := reg.Register("x", fixedRenderer("y")); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if _, err := reg.Get("missing"); err == nil {
		t.Fatalf("expected not found error")
	}
}
