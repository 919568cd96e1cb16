package toolchain

import (
	"fmt"
	"strings"
)

// A Triple identifies a compilation target in the arch-vendor-sys[-abi] form.
type Triple string

// Components returns the dash-separated parts of the triple.
func (t Triple) Components() []string {
	return strings.Split(string(t), "-")
}

// Arch returns the architecture component of the triple.
func (t Triple) Arch() string {
	return t.Components()[0]
}

// Validate reports an InvalidTripleError if the triple has fewer than two components.
func (t Triple) Validate() error {
	if len(t.Components()) < 2 {
		return &InvalidTripleError{Triple: string(t)}
	}

	return nil
}

// PlatformConstraint is the (CPU, OS) capability pair a toolchain is compatible with.
type PlatformConstraint struct {
	CPU CPU
	OS  OS
}

func (p PlatformConstraint) String() string {
	return string(p.CPU) + "/" + string(p.OS)
}

// Classify maps a triple to its platform constraint. It only fails for triples
// with fewer than two components: unknown architectures classify as x86_64 and
// unknown operating systems as linux.
func Classify(t Triple) (PlatformConstraint, error) {
	if err := t.Validate(); err != nil {
		return PlatformConstraint{}, err
	}

	cpu := ClassifyCPU(t.Arch())
	if cpu == CPUArmv7EM && strings.HasSuffix(string(t), "hf") {
		cpu = CPUArmv7EMF
	}

	return PlatformConstraint{CPU: cpu, OS: ClassifyOS(t)}, nil
}

// InvalidTripleError is returned for triples that do not have at least
// an architecture and a second component.
type InvalidTripleError struct {
	Triple string
}

func (e *InvalidTripleError) Error() string {
	return fmt.Sprintf("toolchain: invalid target triple %q: expected at least 2 dash-separated components", e.Triple)
}
