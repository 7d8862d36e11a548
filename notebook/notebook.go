// Package notebook binds circuitview's display adapter to a GoNB kernel.
//
// Inside a GoNB notebook the package-level functions display circuits in the
// current cell. Outside one, notebook display returns
// display.ErrNotebookUnavailable and the HTML-returning paths keep working.
package notebook

import (
	"context"
	"sync"

	"github.com/janpfeifer/gonb/gonbui"

	"github.com/goliatone/go-circuitview"
	"github.com/goliatone/go-circuitview/pkg/circuit"
	"github.com/goliatone/go-circuitview/pkg/display"
)

// GoNB forwards HTML to the GoNB front end. It does not implement
// display.WarningSuppressor: gonbui has no warnings channel to mute, so the
// iframe is displayed without a suppression step.
type GoNB struct{}

var _ display.Notebook = GoNB{}

// DisplayHTML shows html in the current cell.
func (GoNB) DisplayHTML(html string) error {
	gonbui.DisplayHTML(html)
	return nil
}

// Resolve returns the GoNB capability when running under a GoNB kernel.
func Resolve() (display.Notebook, error) {
	return resolve(gonbui.IsNotebook)
}

func resolve(inNotebook bool) (display.Notebook, error) {
	if !inNotebook {
		return nil, display.ErrNotebookUnavailable
	}
	return GoNB{}, nil
}

// New builds an offline display bound to the GoNB kernel. opts may add
// overrides, render options or display options.
func New(opts ...circuitview.Option) (*display.Offline, error) {
	all := append([]circuitview.Option{circuitview.WithNotebookResolver(Resolve)}, opts...)
	return circuitview.NewOffline(all...)
}

var defaultDisplay = sync.OnceValues(func() (*display.Offline, error) {
	return New()
})

// RenderCircuitAsHTML renders src. With jupyter set the circuit is shown in
// the current cell and the returned string is empty.
func RenderCircuitAsHTML(ctx context.Context, src circuit.Source, jupyter bool) (string, error) {
	d, err := defaultDisplay()
	if err != nil {
		return "", err
	}
	return d.RenderCircuitAsHTML(ctx, src, jupyter)
}

// RenderCircuitJupyter shows src in the current cell.
func RenderCircuitJupyter(ctx context.Context, src circuit.Source) error {
	_, err := RenderCircuitAsHTML(ctx, src, true)
	return err
}

// ViewBrowser opens src in the default browser.
func ViewBrowser(ctx context.Context, src circuit.Source) error {
	d, err := defaultDisplay()
	if err != nil {
		return err
	}
	return d.ViewBrowser(ctx, src)
}
