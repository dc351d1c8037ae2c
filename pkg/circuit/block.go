package circuit

import (
	"slices"
	"strings"

	"github.com/zestlabs/zest/pkg/errors"
)

// Wire is a user-declared connection between two terminals. Wires are never
// removed; each contributes one union on the owning block's partition.
type Wire struct {
	A *Terminal
	B *Terminal
}

// Pin is one entry of a subcircuit definition's ordered external pin list.
type Pin struct {
	Label    string
	Terminal *Terminal
}

// InitialCondition assigns a starting voltage to the node containing a
// terminal, emitted as an .IC directive.
type InitialCondition struct {
	Terminal *Terminal
	Value    float64
}

// Block is a scope of components and wires: the common core of CircuitRoot
// and SubCircuitDef. Components are kept in insertion order, which the
// compiler relies on for deterministic naming and emission. A block is
// single-writer while it is being built; compiling reads it without
// mutation.
type Block struct {
	name       string
	components []Component
	member     map[Component]bool
	byName     map[string]Component // final name (prefix+requested) -> component, explicit names only
	wires      []Wire
	part       *partition
	includes   []string
	models     []string
}

func newBlock(name string) Block {
	return Block{
		name:   name,
		member: make(map[Component]bool),
		byName: make(map[string]Component),
		part:   newPartition(),
	}
}

// Name returns the block's declared name.
func (b *Block) Name() string { return b.name }

// Add registers a component as a member of the block. Re-adding a component
// already present is a no-op. An explicit component name that collides with
// another explicit name of the same kind in this block is a DUPLICATE_NAME
// error.
func (b *Block) Add(c Component) error {
	if c == nil {
		return errors.New(errors.ErrCodeForeignTerminal, "cannot add nil component to block %q", b.name)
	}
	if b.member[c] {
		return nil
	}
	if req := c.RequestedName(); req != "" {
		if err := errors.ValidateComponentName(req); err != nil {
			return err
		}
		full := c.Prefix() + req
		if other, ok := b.byName[full]; ok && other != c {
			return errors.New(errors.ErrCodeDuplicateName,
				"component name %q already used in block %q", full, b.name)
		}
		b.byName[full] = c
	}
	b.member[c] = true
	b.components = append(b.components, c)
	return nil
}

// Contains reports whether c has been registered with the block.
func (b *Block) Contains(c Component) bool { return b.member[c] }

// Wire connects two terminals. Both components are auto-registered with the
// block if not already present. Wiring is idempotent: repeating a pair (in
// either order) changes neither the wire list nor the partition. A nil
// terminal is a FOREIGN_TERMINAL error.
func (b *Block) Wire(a, t *Terminal) error {
	if a == nil || t == nil {
		return errors.New(errors.ErrCodeForeignTerminal,
			"wire in block %q references a nil terminal", b.name)
	}

	if a.Owner() != nil {
		if err := b.Add(a.Owner()); err != nil {
			return err
		}
	}
	if t.Owner() != nil {
		if err := b.Add(t.Owner()); err != nil {
			return err
		}
	}

	if !b.hasWire(a, t) {
		b.wires = append(b.wires, Wire{A: a, B: t})
	}
	b.part.union(a, t)
	return nil
}

func (b *Block) hasWire(a, t *Terminal) bool {
	for _, w := range b.wires {
		if (w.A == a && w.B == t) || (w.A == t && w.B == a) {
			return true
		}
	}
	return false
}

// Components returns the block's components in insertion order.
func (b *Block) Components() []Component {
	return slices.Clone(b.components)
}

// Wires returns the block's wires in insertion order.
func (b *Block) Wires() []Wire {
	return slices.Clone(b.wires)
}

// Find returns the representative terminal of the equivalence class
// containing t. Terminals never wired are their own representative. The call
// is read-only and cheap (near-constant after union by rank).
func (b *Block) Find(t *Terminal) *Terminal {
	return b.part.find(t)
}

// Connected reports whether two terminals belong to the same electrical node.
func (b *Block) Connected(a, t *Terminal) bool {
	return b.part.find(a) == b.part.find(t)
}

// AddInclude registers an external model file dependency, emitted as an
// .INCLUDE directive. Paths are kept in insertion order; re-adding a path is
// a no-op.
func (b *Block) AddInclude(path string) error {
	if err := errors.ValidateIncludePath(path); err != nil {
		return err
	}
	if !slices.Contains(b.includes, path) {
		b.includes = append(b.includes, path)
	}
	return nil
}

// Includes returns the registered include paths in insertion order.
func (b *Block) Includes() []string {
	return slices.Clone(b.includes)
}

// AddModel registers raw SPICE model text (.MODEL or .SUBCKT definitions)
// to be embedded in the netlist, for models that do not live in a separate
// file. Text is trimmed and de-duplicated; an empty body is an INVALID_INPUT
// error.
func (b *Block) AddModel(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return errors.New(errors.ErrCodeInvalidInput,
			"model text for block %q is empty", b.name)
	}
	if !slices.Contains(b.models, trimmed) {
		b.models = append(b.models, trimmed)
	}
	return nil
}

// Models returns the registered model texts in insertion order.
func (b *Block) Models() []string {
	return slices.Clone(b.models)
}

// Root is the top-level compilation unit. Beyond the common block state it
// owns initial-condition assignments.
type Root struct {
	Block
	ics []InitialCondition
}

// NewRoot creates an empty top-level circuit with the given display name.
func NewRoot(name string) *Root {
	return &Root{Block: newBlock(name)}
}

// SetInitialCondition assigns a starting voltage to the node containing t
// for transient analysis. Setting a condition twice for the same terminal
// overwrites the value in place, preserving insertion order. Ground accepts
// only 0V; any other value is a GROUND_CONDITION error.
func (r *Root) SetInitialCondition(t *Terminal, voltage float64) error {
	if t == nil {
		return errors.New(errors.ErrCodeForeignTerminal,
			"initial condition in circuit %q references a nil terminal", r.name)
	}
	if t.IsGround() {
		if voltage != 0 {
			return errors.New(errors.ErrCodeGroundCondition,
				"ground must stay at 0V, got %v", voltage)
		}
		return nil // ground is always 0V, nothing to record
	}
	for i := range r.ics {
		if r.ics[i].Terminal == t {
			r.ics[i].Value = voltage
			return nil
		}
	}
	r.ics = append(r.ics, InitialCondition{Terminal: t, Value: voltage})
	return nil
}

// InitialConditions returns the recorded assignments in insertion order.
func (r *Root) InitialConditions() []InitialCondition {
	return slices.Clone(r.ics)
}

// SubCircuitDef is a reusable block definition with a fixed, ordered
// external pin list. Compiling it in isolation produces a .SUBCKT block; the
// definition's internal node names are derived purely from its own pins and
// components, independent of how often it is instantiated.
type SubCircuitDef struct {
	Block
	pins []Pin
}

// NewSubCircuitDef creates an empty definition. The name becomes the
// .SUBCKT identifier and must be unique among all definitions reachable
// from a compiled circuit.
func NewSubCircuitDef(name string) *SubCircuitDef {
	return &SubCircuitDef{Block: newBlock(name)}
}

// DeclarePin exposes an internal terminal as an external pin. Pin order is
// declaration order and defines the positional binding of every instance.
// Declaring a label twice is a DUPLICATE_NAME error; exposing Ground or a
// terminal of a component outside the definition is a FOREIGN_TERMINAL
// error.
func (d *SubCircuitDef) DeclarePin(label string, t *Terminal) error {
	if err := errors.ValidatePinLabel(label); err != nil {
		return err
	}
	if label == GroundName {
		return errors.New(errors.ErrCodeInvalidName,
			"pin label %q is reserved for the ground node", label)
	}
	if t == nil || t.IsGround() {
		return errors.New(errors.ErrCodeForeignTerminal,
			"pin %q of %q must expose a component terminal", label, d.name)
	}
	if t.Owner() != nil && !d.member[t.Owner()] {
		return errors.New(errors.ErrCodeForeignTerminal,
			"pin %q of %q exposes a terminal of a component outside the definition", label, d.name)
	}
	for _, p := range d.pins {
		if p.Label == label {
			return errors.New(errors.ErrCodeDuplicateName,
				"pin %q already declared on %q", label, d.name)
		}
	}
	d.pins = append(d.pins, Pin{Label: label, Terminal: t})
	return nil
}

// Pins returns the declared pins in declaration order.
func (d *SubCircuitDef) Pins() []Pin {
	return slices.Clone(d.pins)
}
