package circuit

import "strconv"

// NodeNamer resolves a terminal to its canonical netlist node name within
// one compilation scope. It is implemented by the netlist package's node
// mapper and passed to Emit so each component variant renders its own line
// without any central type switch.
type NodeNamer interface {
	// NameFor returns the node name for t in the current scope.
	NameFor(t *Terminal) (string, error)
}

// Component is an electrical part with an ordered terminal list and a
// type-specific parameter set. Components are created detached and become
// part of a block once added or first referenced by a wiring call. The name
// a component requests is frozen at creation; the final netlist name
// (prefix plus requested name, or prefix plus a per-kind counter) is
// assigned per compile pass by the netlist package.
type Component interface {
	// Prefix returns the netlist element letter for this kind, e.g. "R".
	Prefix() string

	// RequestedName returns the explicit name given at construction, or ""
	// when the component should be auto-named.
	RequestedName() string

	// Terminals returns the component's terminals in declared order.
	Terminals() []*Terminal

	// Emit renders the component's netlist line. name is the final assigned
	// component name including the kind prefix; nodes resolves terminals to
	// node names in the scope being compiled.
	Emit(name string, nodes NodeNamer) (string, error)
}

// DefinitionHolder is the capability interface for components that wrap a
// reusable subcircuit definition. The compiler uses it to discover
// definitions transitively without inspecting concrete types.
type DefinitionHolder interface {
	Definition() *SubCircuitDef
}

// base carries the construction-time name shared by all component variants.
type base struct {
	requested string
}

// RequestedName returns the explicit name given at construction, or "".
func (b *base) RequestedName() string { return b.requested }

// FormatValue renders a component parameter value for netlist emission.
// The shortest representation that round-trips is used, so 12.0 renders as
// "12" and 1e-6 as "1e-06". The output is deterministic for a given value.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
