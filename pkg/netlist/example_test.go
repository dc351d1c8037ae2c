package netlist_test

import (
	"fmt"

	"github.com/zestlabs/zest/pkg/circuit"
	"github.com/zestlabs/zest/pkg/netlist"
)

// Build a resistive divider and print its netlist.
func ExampleCompile() {
	root := circuit.NewRoot("Voltage Divider")
	v1 := circuit.NewVoltageSource(12, "")
	r1 := circuit.NewResistor(1000, "")
	r2 := circuit.NewResistor(2000, "")

	root.Wire(v1.Pos, r1.N1)
	root.Wire(r1.N2, r2.N1)
	root.Wire(r2.N2, circuit.Ground)
	root.Wire(v1.Neg, circuit.Ground)

	res, err := netlist.Compile(root)
	if err != nil {
		fmt.Println("compile:", err)
		return
	}
	fmt.Print(res.Text)
	// Output:
	// * Circuit: Voltage Divider
	//
	// V1 V1_pos gnd DC 12
	// R1 V1_pos R1_n2 1000
	// R2 R1_n2 gnd 2000
	// .end
}

// Reusable stages compile to a single .SUBCKT block however often they are
// placed.
func ExampleSubCircuitDef() {
	stage := circuit.NewSubCircuitDef("RC_STAGE")
	r := circuit.NewResistor(1000, "")
	c := circuit.NewCapacitor(1e-6, "")
	stage.Wire(r.N2, c.Pos)
	stage.DeclarePin("input", r.N1)
	stage.DeclarePin("output", r.N2)
	stage.DeclarePin("vss", c.Neg)

	root := circuit.NewRoot("Cascade")
	vs := circuit.NewVoltageSource(5, "")
	link := circuit.NewResistor(100, "")
	root.Instantiate(stage, "", vs.Pos, link.N1, circuit.Ground)
	root.Instantiate(stage, "", link.N2, circuit.Ground, circuit.Ground)
	root.Wire(vs.Neg, circuit.Ground)

	res, err := netlist.Compile(root)
	if err != nil {
		fmt.Println("compile:", err)
		return
	}
	fmt.Print(res.Text)
	// Output:
	// * Circuit: Cascade
	//
	// .SUBCKT RC_STAGE input output vss
	// R1 input output 1000
	// C1 output vss 1e-06
	// .ENDS RC_STAGE
	//
	// X1 X1_input X1_output gnd RC_STAGE
	// V1 X1_input gnd DC 5
	// R1 X1_output R1_n2 100
	// X2 R1_n2 gnd gnd RC_STAGE
	// .end
}
