// Package template defines the renderer-agnostic template seam the circuit
// renderer depends on. The gotemplate subpackage provides the pongo2-backed
// environment.
package template
