package display

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrNotebookUnavailable is returned by resolvers when no notebook display
// capability exists in the running environment.
var ErrNotebookUnavailable = errors.New("display: notebook display capability unavailable")

// Notebook displays raw HTML in the current cell output.
type Notebook interface {
	DisplayHTML(html string) error
}

// WarningSuppressor is implemented by notebooks that can mute their own
// warnings. restore undoes the suppression.
type WarningSuppressor interface {
	SuppressWarnings() (restore func())
}

// Resolver locates the notebook capability.
type Resolver func() (Notebook, error)

// Unavailable is the resolver used when none is configured.
func Unavailable() (Notebook, error) {
	return nil, ErrNotebookUnavailable
}

// Static returns a resolver that always yields nb.
func Static(nb Notebook) Resolver {
	return func() (Notebook, error) {
		if nb == nil {
			return nil, ErrNotebookUnavailable
		}
		return nb, nil
	}
}

// lazyNotebook resolves once, on first use, and remembers the outcome.
type lazyNotebook struct {
	once    sync.Once
	resolve Resolver
	nb      Notebook
	err     error
}

func newLazyNotebook(resolve Resolver) *lazyNotebook {
	if resolve == nil {
		resolve = Unavailable
	}
	return &lazyNotebook{resolve: resolve}
}

func (l *lazyNotebook) get() (Notebook, error) {
	l.once.Do(func() {
		l.nb, l.err = l.resolve()
		if l.err == nil && l.nb == nil {
			l.err = ErrNotebookUnavailable
		}
	})
	return l.nb, l.err
}

// WriterNotebook writes each display request to W. It backs plain-text
// front ends and tests.
type WriterNotebook struct {
	W io.Writer
}

// DisplayHTML writes html followed by a newline.
func (n WriterNotebook) DisplayHTML(html string) error {
	if n.W == nil {
		return fmt.Errorf("display: writer notebook has no writer")
	}
	_, err := fmt.Fprintln(n.W, html)
	return err
}
