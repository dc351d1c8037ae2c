package netlist

import (
	"strconv"

	"github.com/zestlabs/zest/pkg/circuit"
	"github.com/zestlabs/zest/pkg/errors"
)

// scope is the view of a block that compilation needs. Both *circuit.Root
// and *circuit.SubCircuitDef satisfy it through their embedded Block.
type scope interface {
	Name() string
	Components() []circuit.Component
	Includes() []string
	Models() []string
	Find(*circuit.Terminal) *circuit.Terminal
}

// assignNames computes the final netlist name for every component of a
// block, fresh for each compile pass. Explicitly named components get
// prefix+name; the rest get prefix plus a per-kind counter in insertion
// order, skipping values an explicit name already occupies.
func assignNames(comps []circuit.Component) map[circuit.Component]string {
	taken := make(map[string]bool, len(comps))
	for _, c := range comps {
		if req := c.RequestedName(); req != "" {
			taken[c.Prefix()+req] = true
		}
	}

	names := make(map[circuit.Component]string, len(comps))
	counters := make(map[string]int)
	for _, c := range comps {
		if req := c.RequestedName(); req != "" {
			names[c] = c.Prefix() + req
			continue
		}
		prefix := c.Prefix()
		for {
			counters[prefix]++
			candidate := prefix + strconv.Itoa(counters[prefix])
			if !taken[candidate] {
				names[c] = candidate
				break
			}
		}
	}
	return names
}

// NodeMapper maps each equivalence class of a block's terminals to its
// canonical output node name for one compilation pass. It is computed from
// the block's final partition and never mutates the graph.
type NodeMapper struct {
	block scope
	names map[*circuit.Terminal]string // class representative -> node name
}

// newNodeMapper derives the naming table for one scope. compNames is the
// per-pass component name assignment; pins is the scope's declared pin list
// (empty for a root). Precedence per class: ground literal, then pin label,
// then "<componentName>_<terminalLabel>" of the insertion-earliest member.
// Every class gets a distinct name: a derived name that would repeat a name
// already claimed by another class (a pin label, or an earlier derived name)
// takes a numeric suffix instead, so two classes never merge in the output
// text.
func newNodeMapper(block scope, compNames map[circuit.Component]string, pins []circuit.Pin) *NodeMapper {
	m := &NodeMapper{
		block: block,
		names: make(map[*circuit.Terminal]string),
	}
	used := map[string]bool{circuit.GroundName: true}

	groundRep := block.Find(circuit.Ground)
	m.names[groundRep] = circuit.GroundName

	for _, pin := range pins {
		used[pin.Label] = true
		rep := block.Find(pin.Terminal)
		if _, ok := m.names[rep]; !ok {
			m.names[rep] = pin.Label
		}
	}

	for _, c := range block.Components() {
		name := compNames[c]
		for _, t := range c.Terminals() {
			rep := block.Find(t)
			if _, ok := m.names[rep]; ok {
				continue
			}
			base := name + "_" + t.Label()
			candidate := base
			for i := 2; used[candidate]; i++ {
				candidate = base + "_" + strconv.Itoa(i)
			}
			m.names[rep] = candidate
			used[candidate] = true
		}
	}

	return m
}

// NameFor returns the node name for t within the mapper's scope. A terminal
// that belongs to no component of the scope is a FOREIGN_TERMINAL error.
func (m *NodeMapper) NameFor(t *circuit.Terminal) (string, error) {
	if t == nil {
		return "", errors.New(errors.ErrCodeForeignTerminal,
			"nil terminal in block %q", m.block.Name())
	}
	if name, ok := m.names[m.block.Find(t)]; ok {
		return name, nil
	}
	return "", errors.New(errors.ErrCodeForeignTerminal,
		"terminal %s does not belong to block %q", t, m.block.Name())
}
