package netlist

import (
	"github.com/zestlabs/zest/pkg/circuit"
)

// Binding is the stable mapping between the compiled root's terminals and
// their canonical node names. It is handed to result-interpretation code so
// simulation output, keyed by node name, can be translated back to the
// caller's component and terminal references.
type Binding struct {
	byTerminal map[*circuit.Terminal]string
	byNode     map[string][]*circuit.Terminal
	refs       map[string][]string // node -> "<componentName>.<terminalLabel>" refs
	nodes      []string            // first-discovery order
}

func newBinding() *Binding {
	return &Binding{
		byTerminal: make(map[*circuit.Terminal]string),
		byNode:     make(map[string][]*circuit.Terminal),
		refs:       make(map[string][]string),
	}
}

func (b *Binding) record(t *circuit.Terminal, node, ref string) {
	if _, ok := b.byTerminal[t]; ok {
		return
	}
	b.byTerminal[t] = node
	if _, ok := b.byNode[node]; !ok {
		b.nodes = append(b.nodes, node)
	}
	b.byNode[node] = append(b.byNode[node], t)
	b.refs[node] = append(b.refs[node], ref)
}

// NodeOf returns the compiled node name for a terminal of the root scope.
func (b *Binding) NodeOf(t *circuit.Terminal) (string, bool) {
	name, ok := b.byTerminal[t]
	return name, ok
}

// TerminalsOf returns the terminals collapsed into the named node, in the
// deterministic order they were discovered during compilation.
func (b *Binding) TerminalsOf(node string) []*circuit.Terminal {
	return append([]*circuit.Terminal(nil), b.byNode[node]...)
}

// Nodes returns all node names of the root scope in first-discovery order.
func (b *Binding) Nodes() []string {
	return append([]string(nil), b.nodes...)
}

// NodeRefs returns, for every node, the "<componentName>.<terminalLabel>"
// references collapsed into it, using the compiled netlist names. The ground
// terminal itself appears as the ground literal.
func (b *Binding) NodeRefs() map[string][]string {
	out := make(map[string][]string, len(b.refs))
	for node, refs := range b.refs {
		out[node] = append([]string(nil), refs...)
	}
	return out
}
