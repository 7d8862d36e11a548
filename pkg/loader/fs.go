package loader

import (
	"bytes"
	"errors"
	"io/fs"
	"path"
	"time"

	"github.com/flosch/pongo2/v6"
)

// AsFS exposes the files l resolves under prefix as a read-only fs.FS, so a
// resolved chain can be served or copied like any other tree. Only files are
// addressable; directories cannot be listed.
func AsFS(l pongo2.TemplateLoader, prefix string) fs.FS {
	return chainFS{loader: l, prefix: cleanName(prefix)}
}

type chainFS struct {
	loader pongo2.TemplateLoader
	prefix string
}

var _ fs.ReadFileFS = chainFS{}

func (c chainFS) Open(name string) (fs.File, error) {
	data, err := c.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return &memFile{Reader: bytes.NewReader(data), info: memInfo{name: path.Base(name), size: int64(len(data))}}, nil
}

func (c chainFS) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) || name == "." {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	full := name
	if c.prefix != "" {
		full = c.prefix + "/" + name
	}
	data, err := Read(c.loader, full)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
		}
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return data, nil
}

type memFile struct {
	*bytes.Reader
	info memInfo
}

func (f *memFile) Stat() (fs.FileInfo, error) { return f.info, nil }
func (f *memFile) Close() error               { return nil }

type memInfo struct {
	name string
	size int64
}

func (i memInfo) Name() string       { return i.name }
func (i memInfo) Size() int64        { return i.size }
func (i memInfo) Mode() fs.FileMode  { return 0o444 }
func (i memInfo) ModTime() time.Time { return time.Time{} }
func (i memInfo) IsDir() bool        { return false }
func (i memInfo) Sys() any           { return nil }
