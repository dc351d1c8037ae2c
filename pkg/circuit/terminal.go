package circuit

import "fmt"

// GroundName is the reserved netlist node name for the global ground node.
// No non-ground equivalence class may be assigned this name.
const GroundName = "gnd"

// Terminal is a named connection point owned by exactly one component.
// Terminals are allocated eagerly when their component is constructed and
// are immutable afterwards. Identity is pointer identity: two terminals are
// the same entity only if they are the identical allocation, never merely
// because their labels match.
type Terminal struct {
	owner Component
	label string
}

// newTerminal allocates a terminal owned by c with the given label.
func newTerminal(c Component, label string) *Terminal {
	return &Terminal{owner: c, label: label}
}

// Ground is the process-wide ground terminal. It is owned by no component
// and every equivalence class containing it maps to GroundName.
// Ground is immutable and safe to share across circuits and goroutines.
var Ground = &Terminal{label: GroundName}

// Owner returns the component that owns the terminal, or nil for Ground.
func (t *Terminal) Owner() Component { return t.owner }

// Label returns the terminal's canonical label, e.g. "n1" or "pos".
func (t *Terminal) Label() string { return t.label }

// IsGround reports whether the terminal is the global ground terminal.
func (t *Terminal) IsGround() bool { return t == Ground }

// String returns a debug representation. Netlist node names are assigned by
// the compiler, not derived from this method.
func (t *Terminal) String() string {
	if t.IsGround() {
		return GroundName
	}
	if t.owner != nil && t.owner.RequestedName() != "" {
		return fmt.Sprintf("%s.%s", t.owner.RequestedName(), t.label)
	}
	return fmt.Sprintf("%p.%s", t.owner, t.label)
}
