// Package manifest loads declarative circuit descriptions from TOML files
// and builds the corresponding circuit graph. A manifest is the CLI-facing
// input format; programs embedding the compiler can also construct circuits
// directly with pkg/circuit.
package manifest

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/zestlabs/zest/pkg/errors"
)

// Extension is the conventional manifest file suffix.
const Extension = ".circuit.toml"

// File is the decoded form of a circuit manifest.
type File struct {
	Name        string       `toml:"name"`
	Includes    []string     `toml:"includes"`
	Models      []string     `toml:"models"`
	SubCircuits []SubCircuit `toml:"subcircuits"`
	Components  []Component  `toml:"components"`
	Wires       []WireDecl   `toml:"wires"`
	ICs         []ICDecl     `toml:"ics"`
}

// SubCircuit declares a reusable definition. Definitions may instantiate
// definitions declared earlier in the same manifest.
type SubCircuit struct {
	Name       string      `toml:"name"`
	Includes   []string    `toml:"includes"`
	Models     []string    `toml:"models"`
	Components []Component `toml:"components"`
	Wires      []WireDecl  `toml:"wires"`
	Pins       []PinDecl   `toml:"pins"`
}

// Component declares one circuit element. Which fields apply depends on the
// kind; see the kind constants.
type Component struct {
	ID   string `toml:"id"`
	Kind string `toml:"kind"`
	// Name requests an explicit netlist name; empty means auto-numbered.
	Name  string  `toml:"name"`
	Value float64 `toml:"value"`

	// kind = "instance"
	SubCircuit string `toml:"subcircuit"`

	// kind = "external"
	Subckt string  `toml:"subckt"`
	Pins   []string `toml:"pins"`
	Params []Param  `toml:"params"`

	// kind = "pwl": [time, voltage] pairs in ascending time order
	Points [][]float64 `toml:"points"`
}

// Param is one ordered name=value model parameter of an external instance.
type Param struct {
	Key   string `toml:"key"`
	Value string `toml:"value"`
}

// WireDecl connects two terminal references ("<id>.<label>" or "gnd").
type WireDecl struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

// PinDecl exposes a terminal of a subcircuit definition under a label.
type PinDecl struct {
	Label    string `toml:"label"`
	Terminal string `toml:"terminal"`
}

// ICDecl sets the initial voltage of the node containing a terminal.
type ICDecl struct {
	Terminal string  `toml:"terminal"`
	Value    float64 `toml:"value"`
}

// Component kinds accepted in manifests.
const (
	KindVSource   = "vsource"
	KindISource   = "isource"
	KindPWL       = "pwl"
	KindResistor  = "resistor"
	KindCapacitor = "capacitor"
	KindInductor  = "inductor"
	KindInstance  = "instance"
	KindExternal  = "external"
)

// Load reads and decodes a manifest file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err,
			"reading manifest %s", path)
	}
	return Parse(data)
}

// Parse decodes a manifest from raw TOML bytes.
func Parse(data []byte) (*File, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decoding manifest")
	}
	if f.Name == "" {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "manifest has no circuit name")
	}
	return &f, nil
}
