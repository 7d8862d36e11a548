package circuit

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default register names used by New.
const (
	DefaultQubitRegister = "q"
	DefaultBitRegister   = "c"
)

// UnitID names a qubit or bit by register and index. It serialises as
// ["q", [0]].
type UnitID struct {
	Register string
	Index    []int
}

// Qubit returns the i-th qubit of the default register.
func Qubit(i int) UnitID {
	return UnitID{Register: DefaultQubitRegister, Index: []int{i}}
}

// Bit returns the i-th bit of the default register.
func Bit(i int) UnitID {
	return UnitID{Register: DefaultBitRegister, Index: []int{i}}
}

// String renders the unit the way it is labelled on the wire diagram: q[0],
// grid[1, 2].
func (u UnitID) String() string {
	parts := make([]string, len(u.Index))
	for i, idx := range u.Index {
		parts[i] = strconv.Itoa(idx)
	}
	return fmt.Sprintf("%s[%s]", u.Register, strings.Join(parts, ", "))
}

func (u UnitID) key() string {
	return u.String()
}

// MarshalJSON encodes the unit as a two element array.
func (u UnitID) MarshalJSON() ([]byte, error) {
	index := u.Index
	if index == nil {
		index = []int{}
	}
	return json.Marshal([]any{u.Register, index})
}

// UnmarshalJSON decodes ["reg", [i, ...]].
func (u *UnitID) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("circuit: unit id: %w", err)
	}
	if len(raw) != 2 {
		return fmt.Errorf("circuit: unit id: want [register, index], got %d elements", len(raw))
	}
	var out UnitID
	if err := json.Unmarshal(raw[0], &out.Register); err != nil {
		return fmt.Errorf("circuit: unit id register: %w", err)
	}
	if err := json.Unmarshal(raw[1], &out.Index); err != nil {
		return fmt.Errorf("circuit: unit id index: %w", err)
	}
	*u = out
	return nil
}

// MarshalYAML mirrors the JSON shape.
func (u UnitID) MarshalYAML() (any, error) {
	index := u.Index
	if index == nil {
		index = []int{}
	}
	return []any{u.Register, index}, nil
}

// UnmarshalYAML accepts the JSON shape (["q", [0]]) and the flow shorthand
// q[0].
func (u *UnitID) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		parsed, err := ParseUnitID(node.Value)
		if err != nil {
			return err
		}
		*u = parsed
		return nil
	case yaml.SequenceNode:
		if len(node.Content) != 2 {
			return fmt.Errorf("circuit: unit id at line %d: want [register, index]", node.Line)
		}
		var out UnitID
		if err := node.Content[0].Decode(&out.Register); err != nil {
			return fmt.Errorf("circuit: unit id register: %w", err)
		}
		if err := node.Content[1].Decode(&out.Index); err != nil {
			return fmt.Errorf("circuit: unit id index: %w", err)
		}
		*u = out
		return nil
	default:
		return fmt.Errorf("circuit: unit id at line %d: unexpected node", node.Line)
	}
}

// ParseUnitID parses the q[0] / grid[1, 2] form produced by String.
func ParseUnitID(raw string) (UnitID, error) {
	trimmed := strings.TrimSpace(raw)
	open := strings.IndexByte(trimmed, '[')
	if open <= 0 || !strings.HasSuffix(trimmed, "]") {
		return UnitID{}, fmt.Errorf("circuit: invalid unit id %q", raw)
	}
	out := UnitID{Register: trimmed[:open], Index: []int{}}
	inner := strings.TrimSpace(trimmed[open+1 : len(trimmed)-1])
	if inner == "" {
		return out, nil
	}
	for _, part := range strings.Split(inner, ",") {
		idx, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return UnitID{}, fmt.Errorf("circuit: invalid unit id %q: %w", raw, err)
		}
		out.Index = append(out.Index, idx)
	}
	return out, nil
}

// Op is one operation. Params are kept as strings so symbolic angles such as
// "a/2" survive unchanged.
type Op struct {
	Type   string   `json:"type" yaml:"type"`
	Params []string `json:"params,omitempty" yaml:"params,omitempty"`
	Box    *Box     `json:"box,omitempty" yaml:"box,omitempty"`
}

// Box groups a sub-circuit under one op so the renderer can draw it collapsed
// or expand it when rendering recursively.
type Box struct {
	Type    string   `json:"type" yaml:"type"`
	Circuit *Circuit `json:"circuit,omitempty" yaml:"circuit,omitempty"`
}

// Command applies an op to its arguments.
type Command struct {
	Op      Op       `json:"op" yaml:"op"`
	Args    []UnitID `json:"args" yaml:"args"`
	OpGroup string   `json:"opgroup,omitempty" yaml:"opgroup,omitempty"`
}

// Circuit is an ordered list of commands over declared qubits and bits.
type Circuit struct {
	Name                string      `json:"name,omitempty" yaml:"name,omitempty"`
	Phase               string      `json:"phase" yaml:"phase"`
	Qubits              []UnitID    `json:"qubits" yaml:"qubits"`
	Bits                []UnitID    `json:"bits" yaml:"bits"`
	Commands            []Command   `json:"commands" yaml:"commands"`
	ImplicitPermutation [][2]UnitID `json:"implicit_permutation" yaml:"implicit_permutation"`
}

// New returns an empty circuit over q[0..qubits) and c[0..bits).
func New(qubits, bits int) *Circuit {
	c := &Circuit{
		Phase:               "0.0",
		Qubits:              make([]UnitID, 0, qubits),
		Bits:                make([]UnitID, 0, bits),
		Commands:            []Command{},
		ImplicitPermutation: [][2]UnitID{},
	}
	for i := 0; i < qubits; i++ {
		c.Qubits = append(c.Qubits, Qubit(i))
	}
	for i := 0; i < bits; i++ {
		c.Bits = append(c.Bits, Bit(i))
	}
	return c
}

// WithName sets the circuit name and returns the circuit for chaining.
func (c *Circuit) WithName(name string) *Circuit {
	c.Name = name
	return c
}

// Add appends a parameterless op.
func (c *Circuit) Add(opType string, args ...UnitID) *Circuit {
	return c.AddParams(opType, nil, args...)
}

// AddParams appends an op with parameters.
func (c *Circuit) AddParams(opType string, params []string, args ...UnitID) *Circuit {
	c.Commands = append(c.Commands, Command{
		Op:   Op{Type: opType, Params: params},
		Args: append([]UnitID(nil), args...),
	})
	return c
}

// AddBox appends sub as a boxed operation acting on args.
func (c *Circuit) AddBox(sub *Circuit, args ...UnitID) *Circuit {
	c.Commands = append(c.Commands, Command{
		Op:   Op{Type: "CircBox", Box: &Box{Type: "CircBox", Circuit: sub}},
		Args: append([]UnitID(nil), args...),
	})
	return c
}

// H appends a Hadamard on q[i].
func (c *Circuit) H(i int) *Circuit { return c.Add("H", Qubit(i)) }

// X appends a Pauli X on q[i].
func (c *Circuit) X(i int) *Circuit { return c.Add("X", Qubit(i)) }

// CX appends a controlled X.
func (c *Circuit) CX(control, target int) *Circuit {
	return c.Add("CX", Qubit(control), Qubit(target))
}

// Rz appends a Z rotation by angle (in half-turns).
func (c *Circuit) Rz(angle string, i int) *Circuit {
	return c.AddParams("Rz", []string{angle}, Qubit(i))
}

// Measure appends a measurement of q[qubit] into c[bit].
func (c *Circuit) Measure(qubit, bit int) *Circuit {
	return c.Add("Measure", Qubit(qubit), Bit(bit))
}
