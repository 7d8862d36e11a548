package circuit

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrInvalidCircuit reports a circuit that cannot be converted for rendering.
var ErrInvalidCircuit = errors.New("circuit: invalid circuit")

// Source is anything the renderer can draw.
type Source interface {
	RenderIR() (IR, error)
}

// IR is the renderer-facing form of a circuit: a canonical JSON payload plus
// the counts the page chrome needs.
type IR struct {
	Name     string
	Qubits   int
	Bits     int
	Commands int
	Payload  json.RawMessage
}

var (
	_ Source = (*Circuit)(nil)
	_ Source = Dict(nil)
)

// RenderIR validates the circuit and serialises it.
func (c *Circuit) RenderIR() (IR, error) {
	if c == nil {
		return IR{}, fmt.Errorf("%w: circuit is nil", ErrInvalidCircuit)
	}
	if err := c.Validate(); err != nil {
		return IR{}, err
	}
	payload, err := json.Marshal(c.normalized())
	if err != nil {
		return IR{}, fmt.Errorf("%w: marshal: %v", ErrInvalidCircuit, err)
	}
	return IR{
		Name:     c.Name,
		Qubits:   len(c.Qubits),
		Bits:     len(c.Bits),
		Commands: len(c.Commands),
		Payload:  payload,
	}, nil
}

// Validate checks that units are unique and every command argument refers to
// a declared unit. Boxed circuits are validated on their own units; a box that
// contains one of its enclosing circuits is rejected.
func (c *Circuit) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: circuit is nil", ErrInvalidCircuit)
	}
	return c.validate(make(map[*Circuit]bool))
}

// validate tracks the circuits on the current box path. A circuit may appear
// in several boxes, just not inside itself.
func (c *Circuit) validate(enclosing map[*Circuit]bool) error {
	if enclosing[c] {
		return fmt.Errorf("%w: circuit %q contains itself", ErrInvalidCircuit, c.Name)
	}
	enclosing[c] = true
	defer delete(enclosing, c)

	declared := make(map[string]struct{}, len(c.Qubits)+len(c.Bits))
	for _, units := range [][]UnitID{c.Qubits, c.Bits} {
		for _, unit := range units {
			if strings.TrimSpace(unit.Register) == "" {
				return fmt.Errorf("%w: unit with empty register", ErrInvalidCircuit)
			}
			if _, dup := declared[unit.key()]; dup {
				return fmt.Errorf("%w: unit %s declared twice", ErrInvalidCircuit, unit)
			}
			declared[unit.key()] = struct{}{}
		}
	}

	for i, cmd := range c.Commands {
		if strings.TrimSpace(cmd.Op.Type) == "" {
			return fmt.Errorf("%w: command %d has no op type", ErrInvalidCircuit, i)
		}
		for _, arg := range cmd.Args {
			if _, ok := declared[arg.key()]; !ok {
				return fmt.Errorf("%w: command %d (%s) uses undeclared unit %s", ErrInvalidCircuit, i, cmd.Op.Type, arg)
			}
		}
		if cmd.Op.Box != nil && cmd.Op.Box.Circuit != nil {
			if err := cmd.Op.Box.Circuit.validate(enclosing); err != nil {
				return fmt.Errorf("command %d box: %w", i, err)
			}
		}
	}
	return nil
}

// normalized returns a copy whose nil slices encode as [] so equal circuits
// always produce identical payloads. It assumes Validate has passed.
func (c *Circuit) normalized() *Circuit {
	out := *c
	if out.Phase == "" {
		out.Phase = "0.0"
	}
	if out.Qubits == nil {
		out.Qubits = []UnitID{}
	}
	if out.Bits == nil {
		out.Bits = []UnitID{}
	}
	if out.ImplicitPermutation == nil {
		out.ImplicitPermutation = [][2]UnitID{}
	}
	out.Commands = make([]Command, len(c.Commands))
	for i, cmd := range c.Commands {
		if cmd.Args == nil {
			cmd.Args = []UnitID{}
		}
		if cmd.Op.Box != nil && cmd.Op.Box.Circuit != nil {
			box := *cmd.Op.Box
			box.Circuit = box.Circuit.normalized()
			cmd.Op.Box = &box
		}
		out.Commands[i] = cmd
	}
	return &out
}

// Dict is a circuit already in its serialised map form, e.g. decoded from a
// file produced by another tool. It must carry "qubits" and "commands".
type Dict map[string]any

// RenderIR checks the required keys and serialises the map. Map keys encode
// in sorted order, so the payload is stable.
func (d Dict) RenderIR() (IR, error) {
	if d == nil {
		return IR{}, fmt.Errorf("%w: dict is nil", ErrInvalidCircuit)
	}
	for _, key := range []string{"qubits", "commands"} {
		if _, ok := d[key]; !ok {
			return IR{}, fmt.Errorf("%w: dict missing %q", ErrInvalidCircuit, key)
		}
	}
	payload, err := json.Marshal(map[string]any(d))
	if err != nil {
		return IR{}, fmt.Errorf("%w: marshal dict: %v", ErrInvalidCircuit, err)
	}

	ir := IR{Payload: payload}
	if name, ok := d["name"].(string); ok {
		ir.Name = name
	}
	ir.Qubits = lenOf(d["qubits"])
	ir.Bits = lenOf(d["bits"])
	ir.Commands = lenOf(d["commands"])
	return ir, nil
}

func lenOf(v any) int {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return rv.Len()
	}
	return 0
}
