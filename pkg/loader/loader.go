package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/flosch/pongo2/v6"
)

// ErrTemplateNotFound reports that no link of a chain could resolve a name.
var ErrTemplateNotFound = errors.New("loader: template not found")

// NotFoundError carries the name that failed to resolve. It matches
// ErrTemplateNotFound with errors.Is.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("loader: template %q not found", e.Name)
}

// Is lets errors.Is(err, ErrTemplateNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrTemplateNotFound
}

func notFound(name string) error {
	return &NotFoundError{Name: name}
}

// Read resolves name through l and returns the full content.
func Read(l pongo2.TemplateLoader, name string) ([]byte, error) {
	if l == nil {
		return nil, notFound(name)
	}
	r, err := l.Get(name)
	if err != nil {
		return nil, err
	}
	if rc, ok := r.(io.Closer); ok {
		defer rc.Close()
	}
	return io.ReadAll(r)
}

// FSLoader looks names up in a single fs.FS.
type FSLoader struct {
	fsys fs.FS
}

var _ pongo2.TemplateLoader = (*FSLoader)(nil)

// FS returns a loader backed by fsys. A nil fsys misses every name.
func FS(fsys fs.FS) *FSLoader {
	return &FSLoader{fsys: fsys}
}

// Dir returns a loader backed by a directory on disk. The directory is not
// checked up front; when it does not exist every lookup misses.
func Dir(dir string) *FSLoader {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return FS(nil)
	}
	return FS(os.DirFS(dir))
}

// Sub returns a loader rooted at dir inside fsys. A missing dir behaves like
// an empty tree.
func Sub(fsys fs.FS, dir string) *FSLoader {
	if fsys == nil {
		return FS(nil)
	}
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return FS(nil)
	}
	return FS(sub)
}

// Abs joins name onto the directory of base when name is relative.
func (l *FSLoader) Abs(base, name string) string {
	return joinRelative(base, name)
}

// Get opens name and returns its content.
func (l *FSLoader) Get(name string) (io.Reader, error) {
	clean := cleanName(name)
	if l == nil || l.fsys == nil || !fs.ValidPath(clean) {
		return nil, notFound(name)
	}
	data, err := fs.ReadFile(l.fsys, clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || isDirectoryError(l.fsys, clean) {
			return nil, notFound(name)
		}
		return nil, fmt.Errorf("loader: read %q: %w", name, err)
	}
	return bytes.NewReader(data), nil
}

// ChoiceLoader tries each link in order and returns the first hit.
type ChoiceLoader struct {
	links []pongo2.TemplateLoader
}

var _ pongo2.TemplateLoader = (*ChoiceLoader)(nil)

// Choice builds an ordered fallback chain. Nil links are skipped.
func Choice(links ...pongo2.TemplateLoader) *ChoiceLoader {
	out := make([]pongo2.TemplateLoader, 0, len(links))
	for _, link := range links {
		if link != nil {
			out = append(out, link)
		}
	}
	return &ChoiceLoader{links: out}
}

// Abs resolves relative names against base.
func (l *ChoiceLoader) Abs(base, name string) string {
	return joinRelative(base, name)
}

// Get returns the content from the first link that has name. Only a miss
// moves on to the next link; any other failure is returned immediately.
func (l *ChoiceLoader) Get(name string) (io.Reader, error) {
	for _, link := range l.links {
		r, err := link.Get(name)
		if err == nil {
			return r, nil
		}
		if !errors.Is(err, ErrTemplateNotFound) {
			return nil, err
		}
	}
	return nil, notFound(name)
}

// PrefixLoader partitions the lookup space by the first path segment.
type PrefixLoader struct {
	namespaces map[string]pongo2.TemplateLoader
}

var _ pongo2.TemplateLoader = (*PrefixLoader)(nil)

// Prefix maps namespaces to the loader serving them. "html/circuit.html"
// asks the "html" loader for "circuit.html".
func Prefix(namespaces map[string]pongo2.TemplateLoader) *PrefixLoader {
	out := make(map[string]pongo2.TemplateLoader, len(namespaces))
	for ns, link := range namespaces {
		ns = strings.Trim(strings.TrimSpace(ns), "/")
		if ns == "" || link == nil {
			continue
		}
		out[ns] = link
	}
	return &PrefixLoader{namespaces: out}
}

// Namespaces lists the registered namespaces in sorted order.
func (l *PrefixLoader) Namespaces() []string {
	names := make([]string, 0, len(l.namespaces))
	for ns := range l.namespaces {
		names = append(names, ns)
	}
	sort.Strings(names)
	return names
}

// Abs keeps namespace-qualified names as they are. Anything else is taken
// relative to the including template.
func (l *PrefixLoader) Abs(base, name string) string {
	clean := cleanName(name)
	if ns, _, ok := strings.Cut(clean, "/"); ok {
		if _, known := l.namespaces[ns]; known {
			return clean
		}
	}
	return joinRelative(base, name)
}

// Get splits off the namespace and delegates the rest of the name.
func (l *PrefixLoader) Get(name string) (io.Reader, error) {
	ns, rest, ok := strings.Cut(cleanName(name), "/")
	if !ok || rest == "" {
		return nil, notFound(name)
	}
	link, exists := l.namespaces[ns]
	if !exists {
		return nil, notFound(name)
	}
	r, err := link.Get(rest)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			return nil, notFound(name)
		}
		return nil, err
	}
	return r, nil
}

func cleanName(name string) string {
	trimmed := strings.TrimLeft(strings.TrimSpace(name), "/")
	if trimmed == "" {
		return ""
	}
	return path.Clean(trimmed)
}

func joinRelative(base, name string) string {
	if strings.HasPrefix(strings.TrimSpace(name), "/") || base == "" {
		return cleanName(name)
	}
	return cleanName(path.Join(path.Dir(cleanName(base)), name))
}

func isDirectoryError(fsys fs.FS, name string) bool {
	info, err := fs.Stat(fsys, name)
	return err == nil && info.IsDir()
}
