package render

import (
	"fmt"
)

// Stage names the pipeline step a RenderError came from.
type Stage string

const (
	StageConvert  Stage = "convert"
	StageTemplate Stage = "template"
	StageCaption  Stage = "caption"
)

// RenderError wraps any failure of a render call. The cause stays reachable
// through errors.Is / errors.As, so callers can still match
// loader.ErrTemplateNotFound or circuit.ErrInvalidCircuit.
type RenderError struct {
	Renderer string
	Stage    Stage
	Err      error
}

func (e *RenderError) Error() string {
	if e.Renderer == "" {
		return fmt.Sprintf("render: %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Renderer, e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Wrap builds a RenderError, returning nil for a nil cause.
func Wrap(renderer string, stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &RenderError{Renderer: renderer, Stage: stage, Err: err}
}
