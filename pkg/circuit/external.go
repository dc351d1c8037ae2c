package circuit

import (
	"fmt"
	"strings"
)

// Param is one name=value parameter of an external model instance.
// Parameters are emitted in the order given at construction.
type Param struct {
	Key   string
	Value string
}

// ExternalSubCircuit instantiates a subcircuit whose definition lives in an
// external model file registered via an include path, e.g. an op-amp macro
// model from a vendor library. The compiler emits the instance line but
// never a .SUBCKT block for it.
type ExternalSubCircuit struct {
	base
	Subckt string  // definition name inside the external file
	Params []Param // optional model parameters, in order

	terminals []*Terminal
	byLabel   map[string]*Terminal
}

// NewExternalSubCircuit creates an instance of the external definition
// subckt with one terminal per pin label, in order. The pin order must match
// the external definition's pin list.
func NewExternalSubCircuit(subckt string, pins []string, params []Param, name string) *ExternalSubCircuit {
	x := &ExternalSubCircuit{
		base:    base{requested: name},
		Subckt:  subckt,
		Params:  append([]Param(nil), params...),
		byLabel: make(map[string]*Terminal, len(pins)),
	}
	for _, pin := range pins {
		t := newTerminal(x, pin)
		x.terminals = append(x.terminals, t)
		x.byLabel[pin] = t
	}
	return x
}

func (x *ExternalSubCircuit) Prefix() string { return "X" }

func (x *ExternalSubCircuit) Terminals() []*Terminal {
	return append([]*Terminal(nil), x.terminals...)
}

// Terminal returns the terminal for the given pin label.
func (x *ExternalSubCircuit) Terminal(label string) (*Terminal, bool) {
	t, ok := x.byLabel[label]
	return t, ok
}

func (x *ExternalSubCircuit) Emit(name string, nodes NodeNamer) (string, error) {
	parts := []string{name}
	for _, t := range x.terminals {
		n, err := nodes.NameFor(t)
		if err != nil {
			return "", err
		}
		parts = append(parts, n)
	}
	parts = append(parts, x.Subckt)
	for _, p := range x.Params {
		parts = append(parts, fmt.Sprintf("%s=%s", p.Key, p.Value))
	}
	return strings.Join(parts, " "), nil
}
