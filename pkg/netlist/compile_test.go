package netlist

import (
	"strings"
	"testing"

	"github.com/zestlabs/zest/pkg/circuit"
	"github.com/zestlabs/zest/pkg/errors"
)

// voltageDivider builds the reference divider: 12V source feeding 1k and 2k
// resistors in series to ground.
func voltageDivider(t *testing.T) *circuit.Root {
	t.Helper()
	root := circuit.NewRoot("Voltage Divider")
	v1 := circuit.NewVoltageSource(12, "")
	r1 := circuit.NewResistor(1000, "")
	r2 := circuit.NewResistor(2000, "")
	wires := [][2]*circuit.Terminal{
		{v1.Pos, r1.N1},
		{r1.N2, r2.N1},
		{r2.N2, circuit.Ground},
		{v1.Neg, circuit.Ground},
	}
	for _, w := range wires {
		if err := root.Wire(w[0], w[1]); err != nil {
			t.Fatalf("Wire: %v", err)
		}
	}
	return root
}

func TestCompileVoltageDivider(t *testing.T) {
	res, err := Compile(voltageDivider(t))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	want := `* Circuit: Voltage Divider

V1 V1_pos gnd DC 12
R1 V1_pos R1_n2 1000
R2 R1_n2 gnd 2000
.end
`
	if res.Text != want {
		t.Errorf("netlist mismatch\ngot:\n%s\nwant:\n%s", res.Text, want)
	}
}

func TestCompileEmptyCircuit(t *testing.T) {
	res, err := Compile(circuit.NewRoot("Empty"))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	want := "* Circuit: Empty\n\n.end\n"
	if res.Text != want {
		t.Errorf("netlist = %q, want %q", res.Text, want)
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	root := voltageDivider(t)

	first, err := Compile(root)
	if err != nil {
		t.Fatalf("first Compile: %v", err)
	}
	second, err := Compile(root)
	if err != nil {
		t.Fatalf("second Compile: %v", err)
	}
	if first.Text != second.Text {
		t.Error("repeat compilation of an unchanged graph differs")
	}
}

func TestCompileWireOrderIndependent(t *testing.T) {
	build := func(reverse bool) *circuit.Root {
		root := circuit.NewRoot("Order")
		v1 := circuit.NewVoltageSource(9, "")
		r1 := circuit.NewResistor(470, "")
		root.Add(v1)
		root.Add(r1)
		wires := [][2]*circuit.Terminal{
			{v1.Pos, r1.N1},
			{r1.N2, circuit.Ground},
			{v1.Neg, circuit.Ground},
		}
		if reverse {
			for i, j := 0, len(wires)-1; i < j; i, j = i+1, j-1 {
				wires[i], wires[j] = wires[j], wires[i]
			}
			for i := range wires {
				wires[i][0], wires[i][1] = wires[i][1], wires[i][0]
			}
		}
		for _, w := range wires {
			root.Wire(w[0], w[1])
		}
		return root
	}

	a, err := Compile(build(false))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	b, err := Compile(build(true))
	if err != nil {
		t.Fatalf("Compile reversed: %v", err)
	}
	if a.Text != b.Text {
		t.Errorf("wire order changed output\nforward:\n%s\nreversed:\n%s", a.Text, b.Text)
	}
}

func TestGroundAbsorption(t *testing.T) {
	root := voltageDivider(t)
	res, err := Compile(root)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	comps := root.Components()
	v1 := comps[0].(*circuit.VoltageSource)
	r2 := comps[2].(*circuit.Resistor)

	for _, term := range []*circuit.Terminal{v1.Neg, r2.N2, circuit.Ground} {
		node, ok := res.Binding.NodeOf(term)
		if !ok || node != circuit.GroundName {
			t.Errorf("NodeOf(%s) = %q, %v; want %q", term, node, ok, circuit.GroundName)
		}
	}

	// no non-ground node may claim the reserved literal
	for _, node := range res.Binding.Nodes() {
		if node != circuit.GroundName {
			continue
		}
		for _, term := range res.Binding.TerminalsOf(node) {
			if !root.Connected(term, circuit.Ground) {
				t.Errorf("terminal %s mapped to %q but not grounded", term, node)
			}
		}
	}
}

// rcStageDef builds the RC low-pass stage used by the nesting tests.
func rcStageDef(t *testing.T) *circuit.SubCircuitDef {
	t.Helper()
	def := circuit.NewSubCircuitDef("RC_STAGE")
	r := circuit.NewResistor(1000, "")
	c := circuit.NewCapacitor(1e-6, "")
	if err := def.Wire(r.N2, c.Pos); err != nil {
		t.Fatalf("Wire: %v", err)
	}
	mustPin(t, def, "input", r.N1)
	mustPin(t, def, "output", r.N2)
	mustPin(t, def, "vss", c.Neg)
	return def
}

func mustPin(t *testing.T, def *circuit.SubCircuitDef, label string, term *circuit.Terminal) {
	t.Helper()
	if err := def.DeclarePin(label, term); err != nil {
		t.Fatalf("DeclarePin(%s): %v", label, err)
	}
}

func TestCompileNestedSubcircuits(t *testing.T) {
	rc := rcStageDef(t)

	filter := circuit.NewSubCircuitDef("TWO_STAGE")
	s1, err := rc.NewInstance("")
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	s2, err := rc.NewInstance("")
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	filter.Add(s1)
	filter.Add(s2)
	s1out, _ := s1.Terminal("output")
	s2in, _ := s2.Terminal("input")
	filter.Wire(s1out, s2in)
	s1vss, _ := s1.Terminal("vss")
	s2vss, _ := s2.Terminal("vss")
	filter.Wire(s1vss, s2vss)
	s1in, _ := s1.Terminal("input")
	s2out, _ := s2.Terminal("output")
	mustPin(t, filter, "input", s1in)
	mustPin(t, filter, "output", s2out)
	mustPin(t, filter, "vss", s1vss)

	root := circuit.NewRoot("Nested Filter")
	vs := circuit.NewVoltageSource(5, "")
	load := circuit.NewResistor(10000, "")
	if _, err := root.Instantiate(filter, "", vs.Pos, load.N1, circuit.Ground); err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	root.Wire(vs.Neg, circuit.Ground)
	root.Wire(load.N2, circuit.Ground)

	res, err := Compile(root)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	want := `* Circuit: Nested Filter

.SUBCKT RC_STAGE input output vss
R1 input output 1000
C1 output vss 1e-06
.ENDS RC_STAGE

.SUBCKT TWO_STAGE input output vss
X1 input X1_output vss RC_STAGE
X2 X1_output output vss RC_STAGE
.ENDS TWO_STAGE

X1 X1_input X1_output gnd TWO_STAGE
V1 X1_input gnd DC 5
R1 X1_output gnd 10000
.end
`
	if res.Text != want {
		t.Errorf("netlist mismatch\ngot:\n%s\nwant:\n%s", res.Text, want)
	}

	// definition-before-use ordering
	inner := strings.Index(res.Text, ".SUBCKT RC_STAGE")
	outer := strings.Index(res.Text, ".SUBCKT TWO_STAGE")
	use := strings.Index(res.Text, "X1 X1_input")
	if !(inner < outer && outer < use) {
		t.Errorf("ordering violated: inner=%d outer=%d use=%d", inner, outer, use)
	}
}

func TestCompileDoubleInstantiation(t *testing.T) {
	stage := rcStageDef(t)

	root := circuit.NewRoot("Cascade")
	vs := circuit.NewVoltageSource(3.3, "")
	mid := circuit.NewResistor(100, "link")
	if _, err := root.Instantiate(stage, "", vs.Pos, mid.N1, circuit.Ground); err != nil {
		t.Fatalf("Instantiate #1: %v", err)
	}
	if _, err := root.Instantiate(stage, "", mid.N2, circuit.Ground, circuit.Ground); err != nil {
		t.Fatalf("Instantiate #2: %v", err)
	}
	root.Wire(vs.Neg, circuit.Ground)

	res, err := Compile(root)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if got := strings.Count(res.Text, ".SUBCKT RC_STAGE"); got != 1 {
		t.Errorf(".SUBCKT blocks = %d, want 1", got)
	}
	var xLines int
	for _, line := range strings.Split(res.Text, "\n") {
		if strings.HasPrefix(line, "X") && strings.HasSuffix(line, " RC_STAGE") {
			xLines++
		}
	}
	if xLines != 2 {
		t.Errorf("instance lines = %d, want 2", xLines)
	}
}

func TestCompileArityMismatchAbortsBeforeOutput(t *testing.T) {
	def := circuit.NewSubCircuitDef("LATE")
	r := circuit.NewResistor(50, "")
	def.Add(r)
	mustPin(t, def, "a", r.N1)

	inst, err := def.NewInstance("x1")
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}

	// declaring another pin after instantiation leaves the instance short
	mustPin(t, def, "b", r.N2)

	root := circuit.NewRoot("Broken")
	root.Add(inst)
	term := inst.Terminals()[0]
	root.Wire(term, circuit.Ground)

	res, err := Compile(root)
	if !errors.Is(err, errors.ErrCodePinArityMismatch) {
		t.Errorf("err = %v, want PIN_ARITY_MISMATCH", err)
	}
	if res != nil {
		t.Error("partial netlist returned on structural error")
	}
}

func TestCompileRecursiveDefinitions(t *testing.T) {
	a := circuit.NewSubCircuitDef("A")
	ra := circuit.NewResistor(1, "")
	a.Add(ra)
	mustPin(t, a, "p", ra.N1)

	b := circuit.NewSubCircuitDef("B")
	rb := circuit.NewResistor(1, "")
	b.Add(rb)
	mustPin(t, b, "p", rb.N1)

	instB, err := b.NewInstance("")
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	a.Add(instB)
	instA, err := a.NewInstance("")
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	b.Add(instA)

	root := circuit.NewRoot("Recursive")
	if _, err := root.Instantiate(a, "", circuit.Ground); err != nil {
		t.Fatalf("Instantiate: %v", err)
	}

	res, err := Compile(root)
	if !errors.Is(err, errors.ErrCodeStructuralCycle) {
		t.Errorf("err = %v, want STRUCTURAL_CYCLE", err)
	}
	if res != nil {
		t.Error("partial netlist returned on cycle")
	}
}

func TestCompileDuplicateDefinitionNames(t *testing.T) {
	mk := func() *circuit.SubCircuitDef {
		def := circuit.NewSubCircuitDef("STAGE")
		r := circuit.NewResistor(1, "")
		def.Add(r)
		mustPin(t, def, "p", r.N1)
		return def
	}

	root := circuit.NewRoot("Clash")
	if _, err := root.Instantiate(mk(), "", circuit.Ground); err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	if _, err := root.Instantiate(mk(), "", circuit.Ground); err != nil {
		t.Fatalf("Instantiate: %v", err)
	}

	_, err := Compile(root)
	if !errors.Is(err, errors.ErrCodeDuplicateName) {
		t.Errorf("err = %v, want DUPLICATE_NAME", err)
	}
}

func TestCompileIncludesAndInitialConditions(t *testing.T) {
	root := circuit.NewRoot("RC Reset")
	root.AddInclude("models/opamp.lib")
	root.AddInclude("models/switch.lib")

	r1 := circuit.NewResistor(1000, "")
	c1 := circuit.NewCapacitor(1e-6, "")
	root.Wire(r1.N2, c1.Pos)
	root.Wire(c1.Neg, circuit.Ground)
	root.Wire(r1.N1, circuit.Ground)
	if err := root.SetInitialCondition(c1.Pos, 2.5); err != nil {
		t.Fatalf("SetInitialCondition: %v", err)
	}
	// grounded terminals are absorbed, not emitted
	if err := root.SetInitialCondition(c1.Neg, 0); err != nil {
		t.Fatalf("SetInitialCondition: %v", err)
	}

	res, err := Compile(root)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	want := `* Circuit: RC Reset

.INCLUDE "models/opamp.lib"
.INCLUDE "models/switch.lib"

R1 gnd R1_n2 1000
C1 R1_n2 gnd 1e-06
.IC V(R1_n2)=2.5
.end
`
	if res.Text != want {
		t.Errorf("netlist mismatch\ngot:\n%s\nwant:\n%s", res.Text, want)
	}
}

func TestCompileEmbeddedModels(t *testing.T) {
	root := circuit.NewRoot("Switch Bank")
	root.AddInclude("models/dio.lib")
	if err := root.AddModel(".MODEL NFET NMOS (VTO=0.7)"); err != nil {
		t.Fatalf("AddModel: %v", err)
	}
	// re-registering the same text (modulo whitespace) is a no-op
	if err := root.AddModel("  .MODEL NFET NMOS (VTO=0.7)\n"); err != nil {
		t.Fatalf("AddModel: %v", err)
	}

	def := circuit.NewSubCircuitDef("SW")
	if err := def.AddModel(".SUBCKT RELAY a b\nR1 a b 50\n.ENDS RELAY"); err != nil {
		t.Fatalf("AddModel: %v", err)
	}
	r := circuit.NewResistor(10, "")
	if err := def.Add(r); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := def.DeclarePin("p", r.N1); err != nil {
		t.Fatalf("DeclarePin: %v", err)
	}
	if err := def.DeclarePin("q", r.N2); err != nil {
		t.Fatalf("DeclarePin: %v", err)
	}
	inst, err := def.NewInstance("")
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	if err := root.Add(inst); err != nil {
		t.Fatalf("Add: %v", err)
	}

	res, err := Compile(root)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	want := `* Circuit: Switch Bank

.INCLUDE "models/dio.lib"

.MODEL NFET NMOS (VTO=0.7)

.SUBCKT RELAY a b
R1 a b 50
.ENDS RELAY

.SUBCKT SW p q
R1 p q 10
.ENDS SW

X1 X1_p X1_q SW
.end
`
	if res.Text != want {
		t.Errorf("netlist mismatch\ngot:\n%s\nwant:\n%s", res.Text, want)
	}
}

func TestCompileEmbeddedModelsRejectEmpty(t *testing.T) {
	root := circuit.NewRoot("Empty Model")
	if err := root.AddModel("   \n "); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestCompilePinLabelShadowsDerivedName(t *testing.T) {
	// A pin deliberately labeled like a derived node name must not short
	// the unpinned terminal onto the pinned node.
	def := circuit.NewSubCircuitDef("STAGE")
	r := circuit.NewResistor(100, "")
	if err := def.Add(r); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := def.DeclarePin("R1_n2", r.N1); err != nil {
		t.Fatalf("DeclarePin: %v", err)
	}

	root := circuit.NewRoot("Pinned Stage")
	v := circuit.NewVoltageSource(5, "")
	if _, err := root.Instantiate(def, "", v.Pos); err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	if err := root.Wire(v.Neg, circuit.Ground); err != nil {
		t.Fatalf("Wire: %v", err)
	}

	res, err := Compile(root)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	want := `* Circuit: Pinned Stage

.SUBCKT STAGE R1_n2
R1 R1_n2 R1_n2_2 100
.ENDS STAGE

X1 X1_R1_n2 STAGE
V1 X1_R1_n2 gnd DC 5
.end
`
	if res.Text != want {
		t.Errorf("netlist mismatch\ngot:\n%s\nwant:\n%s", res.Text, want)
	}
}

func TestCompilePWLAndExternal(t *testing.T) {
	root := circuit.NewRoot("Mixed Sources")
	pwl := circuit.NewPWLVoltageSource([]circuit.PWLPoint{
		{Time: 0, Voltage: 0},
		{Time: 1e-3, Voltage: 5},
	}, "_STEP")
	amp := circuit.NewExternalSubCircuit("OPAMP_MODEL",
		[]string{"inp", "inn", "out"},
		[]circuit.Param{{Key: "gain", Value: "1e6"}},
		"amp")
	root.AddInclude("models/opamp.lib")

	inp, _ := amp.Terminal("inp")
	inn, _ := amp.Terminal("inn")
	out, _ := amp.Terminal("out")
	root.Wire(pwl.Pos, inp)
	root.Wire(pwl.Neg, circuit.Ground)
	root.Wire(inn, out) // unity follower
	isrc := circuit.NewCurrentSource(0.001, "")
	root.Wire(isrc.Pos, out)
	root.Wire(isrc.Neg, circuit.Ground)

	res, err := Compile(root)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	want := `* Circuit: Mixed Sources

.INCLUDE "models/opamp.lib"

V_STEP V_STEP_pos gnd PWL(0 0 0.001 5)
Xamp V_STEP_pos Xamp_inn Xamp_inn OPAMP_MODEL gain=1e6
I1 Xamp_inn gnd DC 0.001
.end
`
	if res.Text != want {
		t.Errorf("netlist mismatch\ngot:\n%s\nwant:\n%s", res.Text, want)
	}
}

func TestBindingLookup(t *testing.T) {
	root := voltageDivider(t)
	res, err := Compile(root)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	comps := root.Components()
	r1 := comps[1].(*circuit.Resistor)
	r2 := comps[2].(*circuit.Resistor)

	mid1, ok1 := res.Binding.NodeOf(r1.N2)
	mid2, ok2 := res.Binding.NodeOf(r2.N1)
	if !ok1 || !ok2 || mid1 != mid2 {
		t.Errorf("shared node mismatch: %q vs %q", mid1, mid2)
	}

	terms := res.Binding.TerminalsOf(mid1)
	if len(terms) != 2 {
		t.Errorf("TerminalsOf(%q) = %d terminals, want 2", mid1, len(terms))
	}

	refs := res.Binding.NodeRefs()
	if got := refs[mid1]; len(got) != 2 || got[0] != "R1.n2" || got[1] != "R2.n1" {
		t.Errorf("NodeRefs[%q] = %v", mid1, got)
	}

	if _, ok := res.Binding.NodeOf(circuit.NewResistor(1, "").N1); ok {
		t.Error("foreign terminal resolved to a node")
	}
}
