package circuit

import (
	"strings"

	"github.com/zestlabs/zest/pkg/errors"
)

// Instance is a placed subcircuit instance. It wraps a shared reference to a
// SubCircuitDef and owns one terminal per definition pin, positionally
// aligned with the definition's pin list. Two instances of the same
// definition never share node identity: only their pin-connected nodes are
// visible to the enclosing scope.
type Instance struct {
	base
	def       *SubCircuitDef
	terminals []*Terminal
	byLabel   map[string]*Terminal
}

// NewInstance creates a detached instance of def. The instance allocates one
// terminal per definition pin, so its terminal count always matches the pin
// list. A definition without declared pins is an UNRESOLVED_DEFINITION
// error.
func (d *SubCircuitDef) NewInstance(name string) (*Instance, error) {
	if len(d.pins) == 0 {
		return nil, errors.New(errors.ErrCodeUnresolvedDefinition,
			"subcircuit definition %q has no declared pins", d.name)
	}
	inst := &Instance{
		base:    base{requested: name},
		def:     d,
		byLabel: make(map[string]*Terminal, len(d.pins)),
	}
	for _, pin := range d.pins {
		t := newTerminal(inst, pin.Label)
		inst.terminals = append(inst.terminals, t)
		inst.byLabel[pin.Label] = t
	}
	return inst, nil
}

// Instantiate places an instance of def in the block and wires its pins
// positionally to the given terminals. The terminal count must equal the
// definition's pin count; a mismatch is a PIN_ARITY_MISMATCH error and
// leaves the block unchanged.
func (b *Block) Instantiate(def *SubCircuitDef, name string, conns ...*Terminal) (*Instance, error) {
	if def == nil {
		return nil, errors.New(errors.ErrCodeUnresolvedDefinition,
			"instance %q in block %q references a nil definition", name, b.name)
	}
	if len(conns) != len(def.pins) {
		return nil, errors.New(errors.ErrCodePinArityMismatch,
			"instance %q of %q: got %d terminals, definition has %d pins",
			name, def.name, len(conns), len(def.pins))
	}
	for _, t := range conns {
		if t == nil {
			return nil, errors.New(errors.ErrCodeForeignTerminal,
				"instance %q of %q wired to a nil terminal", name, def.name)
		}
	}

	inst, err := def.NewInstance(name)
	if err != nil {
		return nil, err
	}
	if err := b.Add(inst); err != nil {
		return nil, err
	}
	for i, t := range conns {
		if err := b.Wire(inst.terminals[i], t); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

func (i *Instance) Prefix() string { return "X" }

// Terminals returns the instance's terminals in the definition's pin order.
func (i *Instance) Terminals() []*Terminal {
	return append([]*Terminal(nil), i.terminals...)
}

// Terminal returns the instance terminal bound to the named definition pin.
func (i *Instance) Terminal(label string) (*Terminal, bool) {
	t, ok := i.byLabel[label]
	return t, ok
}

// Definition returns the shared definition this instance was created from.
func (i *Instance) Definition() *SubCircuitDef { return i.def }

func (i *Instance) Emit(name string, nodes NodeNamer) (string, error) {
	if i.def == nil {
		return "", errors.New(errors.ErrCodeUnresolvedDefinition,
			"instance %q has no definition", name)
	}
	parts := []string{name}
	for _, t := range i.terminals {
		n, err := nodes.NameFor(t)
		if err != nil {
			return "", err
		}
		parts = append(parts, n)
	}
	parts = append(parts, i.def.Name())
	return strings.Join(parts, " "), nil
}
