package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-circuitview/pkg/circuit"
)

// MustLoadCircuit reads a JSON or YAML circuit fixture.
func MustLoadCircuit(t *testing.T, path string) *circuit.Circuit {
	t.Helper()

	c, err := circuit.Load(path)
	if err != nil {
		t.Fatalf("load circuit: %v", err)
	}
	return c
}

// Bell returns the two-qubit Bell-pair circuit used across renderer tests.
func Bell() *circuit.Circuit {
	return circuit.New(2, 2).WithName("bell").
		H(0).
		CX(0, 1).
		Measure(0, 0).
		Measure(1, 1)
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}

// ListDir returns the sorted base names of the entries in dir.
func ListDir(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, filepath.Base(entry.Name()))
	}
	sort.Strings(names)
	return names
}
