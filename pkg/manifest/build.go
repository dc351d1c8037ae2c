package manifest

import (
	"strings"

	"github.com/zestlabs/zest/pkg/circuit"
	"github.com/zestlabs/zest/pkg/errors"
)

// Build constructs the circuit graph a manifest describes. Definitions are
// built in declaration order, so an instance inside a definition may only
// reference definitions declared above it.
func Build(f *File) (*circuit.Root, error) {
	if f == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cannot build a nil manifest")
	}

	defs := make(map[string]*circuit.SubCircuitDef, len(f.SubCircuits))
	for _, sc := range f.SubCircuits {
		if sc.Name == "" {
			return nil, errors.New(errors.ErrCodeInvalidManifest, "subcircuit has no name")
		}
		if _, ok := defs[sc.Name]; ok {
			return nil, errors.New(errors.ErrCodeDuplicateName,
				"subcircuit %q declared twice", sc.Name)
		}
		def := circuit.NewSubCircuitDef(sc.Name)
		scope, err := populate(&def.Block, sc.Components, sc.Wires, sc.Includes, sc.Models, defs)
		if err != nil {
			return nil, err
		}
		for _, pin := range sc.Pins {
			term, err := scope.resolve(pin.Terminal)
			if err != nil {
				return nil, err
			}
			if err := def.DeclarePin(pin.Label, term); err != nil {
				return nil, err
			}
		}
		defs[sc.Name] = def
	}

	root := circuit.NewRoot(f.Name)
	scope, err := populate(&root.Block, f.Components, f.Wires, f.Includes, f.Models, defs)
	if err != nil {
		return nil, err
	}
	for _, ic := range f.ICs {
		term, err := scope.resolve(ic.Terminal)
		if err != nil {
			return nil, err
		}
		if err := root.SetInitialCondition(term, ic.Value); err != nil {
			return nil, err
		}
	}
	return root, nil
}

// blockScope resolves manifest terminal references within one block.
type blockScope struct {
	byID map[string]circuit.Component
}

// resolve turns "<id>.<label>" (or the ground literal) into a terminal.
func (s *blockScope) resolve(ref string) (*circuit.Terminal, error) {
	if err := errors.ValidateTerminalRef(ref); err != nil {
		return nil, err
	}
	if ref == circuit.GroundName {
		return circuit.Ground, nil
	}
	id, label, _ := strings.Cut(ref, ".")
	comp, ok := s.byID[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidManifest,
			"terminal reference %q names unknown component %q", ref, id)
	}
	for _, t := range comp.Terminals() {
		if t.Label() == label {
			return t, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidManifest,
		"component %q has no terminal %q", id, label)
}

// populate instantiates declared components into a block and applies its
// wires, includes, and embedded models.
func populate(b *circuit.Block, comps []Component, wires []WireDecl, includes, models []string, defs map[string]*circuit.SubCircuitDef) (*blockScope, error) {
	scope := &blockScope{byID: make(map[string]circuit.Component, len(comps))}

	for _, decl := range comps {
		if decl.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidManifest,
				"component of kind %q has no id", decl.Kind)
		}
		if _, ok := scope.byID[decl.ID]; ok {
			return nil, errors.New(errors.ErrCodeInvalidManifest,
				"component id %q declared twice", decl.ID)
		}
		comp, err := materialize(decl, defs)
		if err != nil {
			return nil, err
		}
		if err := b.Add(comp); err != nil {
			return nil, err
		}
		scope.byID[decl.ID] = comp
	}

	for _, w := range wires {
		from, err := scope.resolve(w.From)
		if err != nil {
			return nil, err
		}
		to, err := scope.resolve(w.To)
		if err != nil {
			return nil, err
		}
		if err := b.Wire(from, to); err != nil {
			return nil, err
		}
	}

	for _, path := range includes {
		if err := b.AddInclude(path); err != nil {
			return nil, err
		}
	}

	for _, text := range models {
		if err := b.AddModel(text); err != nil {
			return nil, err
		}
	}
	return scope, nil
}

// materialize builds the concrete component for one declaration.
func materialize(decl Component, defs map[string]*circuit.SubCircuitDef) (circuit.Component, error) {
	switch decl.Kind {
	case KindVSource:
		return circuit.NewVoltageSource(decl.Value, decl.Name), nil
	case KindISource:
		return circuit.NewCurrentSource(decl.Value, decl.Name), nil
	case KindResistor:
		return circuit.NewResistor(decl.Value, decl.Name), nil
	case KindCapacitor:
		return circuit.NewCapacitor(decl.Value, decl.Name), nil
	case KindInductor:
		return circuit.NewInductor(decl.Value, decl.Name), nil
	case KindPWL:
		points := make([]circuit.PWLPoint, len(decl.Points))
		for i, p := range decl.Points {
			if len(p) != 2 {
				return nil, errors.New(errors.ErrCodeInvalidManifest,
					"pwl component %q: point %d must be [time, voltage]", decl.ID, i)
			}
			points[i] = circuit.PWLPoint{Time: p[0], Voltage: p[1]}
		}
		return circuit.NewPWLVoltageSource(points, decl.Name), nil
	case KindInstance:
		def, ok := defs[decl.SubCircuit]
		if !ok {
			return nil, errors.New(errors.ErrCodeUnresolvedDefinition,
				"instance %q references undeclared subcircuit %q", decl.ID, decl.SubCircuit)
		}
		inst, err := def.NewInstance(decl.Name)
		if err != nil {
			return nil, err
		}
		return inst, nil
	case KindExternal:
		if decl.Subckt == "" {
			return nil, errors.New(errors.ErrCodeInvalidManifest,
				"external component %q has no subckt name", decl.ID)
		}
		if len(decl.Pins) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidManifest,
				"external component %q declares no pins", decl.ID)
		}
		params := make([]circuit.Param, len(decl.Params))
		for i, p := range decl.Params {
			params[i] = circuit.Param{Key: p.Key, Value: p.Value}
		}
		return circuit.NewExternalSubCircuit(decl.Subckt, decl.Pins, params, decl.Name), nil
	case "":
		return nil, errors.New(errors.ErrCodeInvalidManifest,
			"component %q has no kind", decl.ID)
	default:
		return nil, errors.New(errors.ErrCodeInvalidKind,
			"component %q has unknown kind %q", decl.ID, decl.Kind)
	}
}
