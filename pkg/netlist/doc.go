// Package netlist compiles a circuit graph into SPICE netlist text.
//
// Compilation is a pure transformation: it reads a fully built
// circuit.Root, resolves each block's wired terminals into canonical
// electrical nodes, assigns deterministic node names, flattens subcircuit
// definitions into .SUBCKT blocks in dependency order, and emits one line
// per component. Compiling the same unmodified graph twice yields
// byte-identical text; any structural problem (missing definition, pin
// arity mismatch, recursive subcircuits) aborts before any text is
// produced.
//
//	res, err := netlist.Compile(root)
//	if err != nil {
//	    return err
//	}
//	fmt.Print(res.Text)
//	node, _ := res.Binding.NodeOf(r1.N2) // translate simulator results back
//
// Node naming precedence within one scope: the ground class maps to "gnd";
// classes holding a declared pin of the definition being compiled map to the
// pin label; every other class is named after its insertion-earliest member
// terminal as "<componentName>_<terminalLabel>".
package netlist
