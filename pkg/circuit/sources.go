package circuit

import (
	"fmt"
	"strings"
)

// VoltageSource is a DC voltage source.
// Positive and Negative are presentation-only aliases for Pos and Neg.
type VoltageSource struct {
	base
	Voltage float64

	Pos      *Terminal
	Neg      *Terminal
	Positive *Terminal
	Negative *Terminal
}

// NewVoltageSource creates a DC voltage source with the given voltage.
func NewVoltageSource(voltage float64, name string) *VoltageSource {
	v := &VoltageSource{base: base{requested: name}, Voltage: voltage}
	v.Pos = newTerminal(v, "pos")
	v.Neg = newTerminal(v, "neg")
	v.Positive, v.Negative = v.Pos, v.Neg
	return v
}

func (v *VoltageSource) Prefix() string { return "V" }

func (v *VoltageSource) Terminals() []*Terminal { return []*Terminal{v.Pos, v.Neg} }

func (v *VoltageSource) Emit(name string, nodes NodeNamer) (string, error) {
	pos, err := nodes.NameFor(v.Pos)
	if err != nil {
		return "", err
	}
	neg, err := nodes.NameFor(v.Neg)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s %s DC %s", name, pos, neg, FormatValue(v.Voltage)), nil
}

// CurrentSource is a DC current source. Current flows from Pos to Neg
// through the source.
type CurrentSource struct {
	base
	Current float64

	Pos *Terminal
	Neg *Terminal
}

// NewCurrentSource creates a DC current source with the given current in amperes.
func NewCurrentSource(current float64, name string) *CurrentSource {
	i := &CurrentSource{base: base{requested: name}, Current: current}
	i.Pos = newTerminal(i, "pos")
	i.Neg = newTerminal(i, "neg")
	return i
}

func (i *CurrentSource) Prefix() string { return "I" }

func (i *CurrentSource) Terminals() []*Terminal { return []*Terminal{i.Pos, i.Neg} }

func (i *CurrentSource) Emit(name string, nodes NodeNamer) (string, error) {
	pos, err := nodes.NameFor(i.Pos)
	if err != nil {
		return "", err
	}
	neg, err := nodes.NameFor(i.Neg)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s %s DC %s", name, pos, neg, FormatValue(i.Current)), nil
}

// PWLPoint is one (time, voltage) breakpoint of a piecewise linear waveform.
type PWLPoint struct {
	Time    float64
	Voltage float64
}

// PWLVoltageSource is a piecewise linear voltage source. The waveform is
// defined by breakpoints in ascending time order; the points are emitted in
// the order given at construction.
type PWLVoltageSource struct {
	base
	Points []PWLPoint

	Pos *Terminal
	Neg *Terminal
}

// NewPWLVoltageSource creates a piecewise linear voltage source from the
// given breakpoints.
func NewPWLVoltageSource(points []PWLPoint, name string) *PWLVoltageSource {
	v := &PWLVoltageSource{base: base{requested: name}}
	v.Points = append(v.Points, points...)
	v.Pos = newTerminal(v, "pos")
	v.Neg = newTerminal(v, "neg")
	return v
}

func (v *PWLVoltageSource) Prefix() string { return "V" }

func (v *PWLVoltageSource) Terminals() []*Terminal { return []*Terminal{v.Pos, v.Neg} }

func (v *PWLVoltageSource) Emit(name string, nodes NodeNamer) (string, error) {
	pos, err := nodes.NameFor(v.Pos)
	if err != nil {
		return "", err
	}
	neg, err := nodes.NameFor(v.Neg)
	if err != nil {
		return "", err
	}

	pairs := make([]string, 0, len(v.Points)*2)
	for _, p := range v.Points {
		pairs = append(pairs, FormatValue(p.Time), FormatValue(p.Voltage))
	}
	return fmt.Sprintf("%s %s %s PWL(%s)", name, pos, neg, strings.Join(pairs, " ")), nil
}
