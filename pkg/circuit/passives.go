package circuit

import "fmt"

// Resistor is a two-terminal resistor.
// A and B are presentation-only aliases for N1 and N2; the core only ever
// consults the canonical terminals.
type Resistor struct {
	base
	Resistance float64

	N1 *Terminal
	N2 *Terminal
	A  *Terminal
	B  *Terminal
}

// NewResistor creates a resistor with the given resistance in ohms.
// name may be "" for auto-naming when the resistor is compiled.
func NewResistor(resistance float64, name string) *Resistor {
	r := &Resistor{base: base{requested: name}, Resistance: resistance}
	r.N1 = newTerminal(r, "n1")
	r.N2 = newTerminal(r, "n2")
	r.A, r.B = r.N1, r.N2
	return r
}

func (r *Resistor) Prefix() string { return "R" }

func (r *Resistor) Terminals() []*Terminal { return []*Terminal{r.N1, r.N2} }

func (r *Resistor) Emit(name string, nodes NodeNamer) (string, error) {
	n1, err := nodes.NameFor(r.N1)
	if err != nil {
		return "", err
	}
	n2, err := nodes.NameFor(r.N2)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s %s %s", name, n1, n2, FormatValue(r.Resistance)), nil
}

// Capacitor is a two-terminal capacitor.
type Capacitor struct {
	base
	Capacitance float64

	Pos *Terminal
	Neg *Terminal
}

// NewCapacitor creates a capacitor with the given capacitance in farads.
func NewCapacitor(capacitance float64, name string) *Capacitor {
	c := &Capacitor{base: base{requested: name}, Capacitance: capacitance}
	c.Pos = newTerminal(c, "pos")
	c.Neg = newTerminal(c, "neg")
	return c
}

func (c *Capacitor) Prefix() string { return "C" }

func (c *Capacitor) Terminals() []*Terminal { return []*Terminal{c.Pos, c.Neg} }

func (c *Capacitor) Emit(name string, nodes NodeNamer) (string, error) {
	pos, err := nodes.NameFor(c.Pos)
	if err != nil {
		return "", err
	}
	neg, err := nodes.NameFor(c.Neg)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s %s %s", name, pos, neg, FormatValue(c.Capacitance)), nil
}

// Inductor is a two-terminal inductor.
type Inductor struct {
	base
	Inductance float64

	N1 *Terminal
	N2 *Terminal
	A  *Terminal
	B  *Terminal
}

// NewInductor creates an inductor with the given inductance in henries.
func NewInductor(inductance float64, name string) *Inductor {
	l := &Inductor{base: base{requested: name}, Inductance: inductance}
	l.N1 = newTerminal(l, "n1")
	l.N2 = newTerminal(l, "n2")
	l.A, l.B = l.N1, l.N2
	return l
}

func (l *Inductor) Prefix() string { return "L" }

func (l *Inductor) Terminals() []*Terminal { return []*Terminal{l.N1, l.N2} }

func (l *Inductor) Emit(name string, nodes NodeNamer) (string, error) {
	n1, err := nodes.NameFor(l.N1)
	if err != nil {
		return "", err
	}
	n2, err := nodes.NameFor(l.N2)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s %s %s", name, n1, n2, FormatValue(l.Inductance)), nil
}
