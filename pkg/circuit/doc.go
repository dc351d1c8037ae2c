// Package circuit provides the in-memory circuit graph model: typed
// components with named terminals, blocks that accumulate components and
// wires, and the union-find structure that collapses wired terminals into
// electrical nodes.
//
// A circuit is built by creating components, adding them to a block (directly
// or implicitly via wiring), and joining terminals with Wire calls:
//
//	root := circuit.NewRoot("Voltage Divider")
//	v1 := circuit.NewVoltageSource(12, "")
//	r1 := circuit.NewResistor(1000, "")
//	r2 := circuit.NewResistor(2000, "")
//	root.Wire(v1.Pos, r1.N1)
//	root.Wire(r1.N2, r2.N1)
//	root.Wire(r2.N2, circuit.Ground)
//	root.Wire(v1.Neg, circuit.Ground)
//
// Wiring is symmetric, transitive, and idempotent: the relation induced by
// all wires partitions a block's terminals into equivalence classes, each
// denoting one electrical node. Compilation to netlist text lives in the
// netlist package and never mutates the graph, so a built block can be
// compiled repeatedly with identical results.
//
// There is no global registry of circuits. Every construction and wiring
// call names the owning block explicitly, so independent circuits can be
// built concurrently on separate goroutines. A single block is single-writer:
// wiring and compiling the same block must not be interleaved across
// goroutines.
package circuit
