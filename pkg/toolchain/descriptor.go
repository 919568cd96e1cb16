package toolchain

// Metadata is the static ABI information attached to every descriptor.
type Metadata struct {
	Identifier       string
	HostSystemName   string
	TargetSystemName string
	TargetLibc       string
	Compiler         string
	ABIVersion       string
	ABILibcVersion   string
}

// Placeholder metadata values. The toolchain is not inspected for them.
const (
	placeholderHost     = "local"
	placeholderLibc     = "unknown"
	placeholderCompiler = "compiler"
	placeholderABI      = "unknown"
)

func newMetadata(t Triple) Metadata {
	return Metadata{
		Identifier:       "cross_" + string(t),
		HostSystemName:   placeholderHost,
		TargetSystemName: string(t),
		TargetLibc:       placeholderLibc,
		Compiler:         placeholderCompiler,
		ABIVersion:       placeholderABI,
		ABILibcVersion:   placeholderABI,
	}
}

// A Resolution is the outcome of Resolve: either a Stub or a *Descriptor.
type Resolution interface {
	// Constraint returns the platform the resolution is compatible with.
	// For a Stub, ok is false: no platform satisfies it.
	Constraint() (c PlatformConstraint, ok bool)

	resolution()
}

// Stub is registered in place of a toolchain when the environment does not
// ask for one. Its constraints can never be satisfied, so it is never selected.
type Stub struct {
	// Reason explains why no toolchain was resolved.
	Reason string
}

func (Stub) Constraint() (PlatformConstraint, bool) {
	return PlatformConstraint{}, false
}

func (Stub) resolution() {}

// A Descriptor describes a resolved toolchain. It is immutable: accessors
// return copies.
type Descriptor struct {
	triple     Triple
	constraint PlatformConstraint
	tools      ToolSet
	includes   []string
	features   []Feature
	metadata   Metadata
}

func (d *Descriptor) resolution() {}

func (d *Descriptor) Constraint() (PlatformConstraint, bool) {
	return d.constraint, true
}

func (d *Descriptor) Triple() Triple {
	return d.triple
}

func (d *Descriptor) Tools() ToolSet {
	return ToolSet{paths: d.tools.Paths()}
}

// IncludeDirectories returns the compiler's builtin include directories in
// search order. It is empty if they could not be determined.
func (d *Descriptor) IncludeDirectories() []string {
	return append([]string(nil), d.includes...)
}

func (d *Descriptor) Features() []Feature {
	out := make([]Feature, len(d.features))
	for i, f := range d.features {
		out[i] = Feature{Name: f.Name, Enabled: f.Enabled, FlagSets: copyFlagSets(f.FlagSets)}
	}
	return out
}

func (d *Descriptor) Metadata() Metadata {
	return d.metadata
}

// CommandLine returns the flags the descriptor's features contribute to an action.
func (d *Descriptor) CommandLine(action Action, vars Variables) []string {
	return Expand(d.features, action, vars)
}

func copyFlagSets(sets []FlagSet) []FlagSet {
	out := make([]FlagSet, len(sets))
	for i, s := range sets {
		groups := make([]FlagGroup, len(s.Groups))
		for j, g := range s.Groups {
			groups[j] = FlagGroup{Flags: append([]string(nil), g.Flags...), Variable: g.Variable}
		}
		out[i] = FlagSet{Actions: actions(s.Actions...), Groups: groups}
	}
	return out
}
