package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// componentNameRegex matches names that survive SPICE netlist emission intact:
// they become part of a whitespace-delimited element line.
var componentNameRegex = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.-]*$`)

// ValidateComponentName validates an explicit component name.
// Auto-generated names always pass; this guards user-supplied names that end
// up verbatim in netlist element lines.
func ValidateComponentName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "component name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidName, "component name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "component name contains control characters")
		}
	}

	if !componentNameRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid component name: %q", name)
	}

	return nil
}

// pinLabelRegex matches pin labels usable in .SUBCKT header lines.
var pinLabelRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidatePinLabel validates a declared subcircuit pin label.
// Pin labels appear in .SUBCKT headers and as node names in instance bodies,
// so they must be single whitespace-free tokens.
func ValidatePinLabel(label string) error {
	if label == "" {
		return New(ErrCodeInvalidName, "pin label cannot be empty")
	}

	if !pinLabelRegex.MatchString(label) {
		return New(ErrCodeInvalidName, "invalid pin label: %q", label)
	}

	return nil
}

// ValidateIncludePath validates a model include path for safety.
// The path is emitted inside a quoted .INCLUDE directive, so quotes and
// control characters would corrupt the netlist.
func ValidateIncludePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "include path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "include path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "include path contains invalid characters")
		}
	}

	if strings.Contains(path, `"`) {
		return New(ErrCodeInvalidPath, "include path cannot contain quotes")
	}

	return nil
}

// ValidateTerminalRef validates a manifest terminal reference of the form
// "<componentID>.<terminalLabel>" or the literal "gnd".
func ValidateTerminalRef(ref string) error {
	if ref == "" {
		return New(ErrCodeInvalidManifest, "terminal reference cannot be empty")
	}

	if ref == "gnd" {
		return nil
	}

	id, label, ok := strings.Cut(ref, ".")
	if !ok || id == "" || label == "" {
		return New(ErrCodeInvalidManifest, "terminal reference must be \"<id>.<terminal>\" or \"gnd\", got %q", ref)
	}

	return nil
}
