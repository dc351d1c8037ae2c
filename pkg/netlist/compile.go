package netlist

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zestlabs/zest/pkg/circuit"
	"github.com/zestlabs/zest/pkg/errors"
)

// Result is the output of one compilation pass: the complete netlist text
// and the terminal-to-node binding of the root scope.
type Result struct {
	Text    string
	Binding *Binding
}

// Compile produces the netlist for a circuit root. The graph is read but
// never mutated, so repeated calls on an unchanged circuit return identical
// text. Compilation is all-or-nothing: any structural error aborts before
// text is produced.
func Compile(root *circuit.Root) (*Result, error) {
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cannot compile a nil circuit")
	}

	defs, err := collectDefinitions(root)
	if err != nil {
		return nil, err
	}

	lines := []string{"* Circuit: " + root.Name(), ""}

	if includes := collectIncludes(root, defs); len(includes) > 0 {
		for _, path := range includes {
			lines = append(lines, fmt.Sprintf(".INCLUDE %q", path))
		}
		lines = append(lines, "")
	}

	for _, model := range collectModels(root, defs) {
		lines = append(lines, model, "")
	}

	for _, def := range defs {
		block, err := compileDefinition(def)
		if err != nil {
			return nil, err
		}
		lines = append(lines, block...)
		lines = append(lines, "")
	}

	names := assignNames(root.Components())
	mapper := newNodeMapper(root, names, nil)
	for _, c := range root.Components() {
		line, err := c.Emit(names[c], mapper)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	for _, ic := range root.InitialConditions() {
		node, err := mapper.NameFor(ic.Terminal)
		if err != nil {
			return nil, err
		}
		if node == circuit.GroundName {
			continue // ground is pinned to 0V by the engine
		}
		lines = append(lines, fmt.Sprintf(".IC V(%s)=%s", node, circuit.FormatValue(ic.Value)))
	}

	lines = append(lines, ".end")

	binding, err := buildBinding(root, mapper, names)
	if err != nil {
		return nil, err
	}

	return &Result{
		Text:    strings.Join(lines, "\n") + "\n",
		Binding: binding,
	}, nil
}

// collectDefinitions discovers every subcircuit definition transitively
// referenced from the root and returns them in dependency order: a
// definition always precedes any definition (or the root) that instantiates
// it, and each definition appears exactly once. Cycles are detected with
// depth-first search using white/gray/black coloring.
func collectDefinitions(root *circuit.Root) ([]*circuit.SubCircuitDef, error) {
	const (
		white = iota
		gray
		black
	)

	color := make(map[*circuit.SubCircuitDef]int)
	byName := make(map[string]*circuit.SubCircuitDef)
	var ordered []*circuit.SubCircuitDef

	var visit func(d *circuit.SubCircuitDef) error
	visit = func(d *circuit.SubCircuitDef) error {
		switch color[d] {
		case black:
			return nil
		case gray:
			return errors.New(errors.ErrCodeStructuralCycle,
				"subcircuit %q transitively instantiates itself", d.Name())
		}
		color[d] = gray
		if err := walkInstances(&d.Block, visit); err != nil {
			return err
		}
		color[d] = black

		if prev, ok := byName[d.Name()]; ok && prev != d {
			return errors.New(errors.ErrCodeDuplicateName,
				"two distinct subcircuit definitions named %q", d.Name())
		}
		byName[d.Name()] = d
		ordered = append(ordered, d)
		return nil
	}

	if err := walkInstances(&root.Block, visit); err != nil {
		return nil, err
	}
	return ordered, nil
}

// walkInstances resolves and visits the definition behind every
// definition-holding component of a block, validating the instance along
// the way.
func walkInstances(b *circuit.Block, visit func(*circuit.SubCircuitDef) error) error {
	for _, c := range b.Components() {
		holder, ok := c.(circuit.DefinitionHolder)
		if !ok {
			continue
		}
		def := holder.Definition()
		if def == nil {
			return errors.New(errors.ErrCodeUnresolvedDefinition,
				"instance in block %q has no definition", b.Name())
		}
		pins := def.Pins()
		if len(pins) == 0 {
			return errors.New(errors.ErrCodeUnresolvedDefinition,
				"subcircuit definition %q was never finalized: no pins declared", def.Name())
		}
		if got := len(c.Terminals()); got != len(pins) {
			return errors.New(errors.ErrCodePinArityMismatch,
				"instance of %q in block %q: %d terminals, definition has %d pins",
				def.Name(), b.Name(), got, len(pins))
		}
		if err := visit(def); err != nil {
			return err
		}
	}
	return nil
}

// collectIncludes gathers include paths from the root and every discovered
// definition: the root's paths first in insertion order, then each
// definition's in discovery order, de-duplicated keep-first.
func collectIncludes(root *circuit.Root, defs []*circuit.SubCircuitDef) []string {
	seen := make(map[string]bool)
	var paths []string
	add := func(list []string) {
		for _, p := range list {
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		}
	}
	add(root.Includes())
	for _, def := range defs {
		add(def.Includes())
	}
	return paths
}

// collectModels gathers embedded model texts from the root and every
// discovered definition, de-duplicated and sorted so the emitted block is
// stable regardless of registration order.
func collectModels(root *circuit.Root, defs []*circuit.SubCircuitDef) []string {
	seen := make(map[string]bool)
	var models []string
	add := func(list []string) {
		for _, m := range list {
			if !seen[m] {
				seen[m] = true
				models = append(models, m)
			}
		}
	}
	add(root.Models())
	for _, def := range defs {
		add(def.Models())
	}
	sort.Strings(models)
	return models
}

// compileDefinition renders one .SUBCKT block. The definition's nodes are
// named purely from its own pins and components, independent of any
// instantiation, so the body text is identical however often the definition
// is placed.
func compileDefinition(def *circuit.SubCircuitDef) ([]string, error) {
	pins := def.Pins()
	labels := make([]string, len(pins))
	for i, p := range pins {
		labels[i] = p.Label
	}

	lines := []string{".SUBCKT " + def.Name() + " " + strings.Join(labels, " ")}

	names := assignNames(def.Components())
	mapper := newNodeMapper(def, names, pins)
	for _, c := range def.Components() {
		line, err := c.Emit(names[c], mapper)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	lines = append(lines, ".ENDS "+def.Name())
	return lines, nil
}

// buildBinding records the root-scope node name of every terminal, in
// deterministic component/terminal order, plus the ground terminal.
func buildBinding(root *circuit.Root, mapper *NodeMapper, names map[circuit.Component]string) (*Binding, error) {
	b := newBinding()
	b.record(circuit.Ground, circuit.GroundName, circuit.GroundName)
	for _, c := range root.Components() {
		for _, t := range c.Terminals() {
			node, err := mapper.NameFor(t)
			if err != nil {
				return nil, err
			}
			b.record(t, node, names[c]+"."+t.Label())
		}
	}
	return b, nil
}
