// Package render turns resolutions into plain records for build files and caches.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"github.com/tmaxmax/crosscc/pkg/toolchain"
)

// Record kinds.
const (
	KindToolchain = "toolchain"
	KindStub      = "stub"
)

// IncompatibleConstraint is the constraint label no platform satisfies.
const IncompatibleConstraint = "@platforms//:incompatible"

// A Record is the serializable form of a toolchain.Resolution.
type Record struct {
	Kind               string            `json:"kind" toml:"kind" msgpack:"kind"`
	Reason             string            `json:"reason,omitempty" toml:"reason,omitempty" msgpack:"reason,omitempty"`
	Triple             string            `json:"triple,omitempty" toml:"triple,omitempty" msgpack:"triple,omitempty"`
	Constraints        []string          `json:"constraints" toml:"constraints" msgpack:"constraints"`
	ToolPaths          map[string]string `json:"tool_paths,omitempty" toml:"tool_paths,omitempty" msgpack:"tool_paths,omitempty"`
	IncludeDirectories []string          `json:"include_directories,omitempty" toml:"include_directories,omitempty" msgpack:"include_directories,omitempty"`
	Features           []Feature         `json:"features,omitempty" toml:"features,omitempty" msgpack:"features,omitempty"`
	Metadata           *Metadata         `json:"metadata,omitempty" toml:"metadata,omitempty" msgpack:"metadata,omitempty"`
}

// Feature is the serializable form of a toolchain.Feature.
type Feature struct {
	Name     string    `json:"name" toml:"name" msgpack:"name"`
	Enabled  bool      `json:"enabled" toml:"enabled" msgpack:"enabled"`
	FlagSets []FlagSet `json:"flag_sets" toml:"flag_sets" msgpack:"flag_sets"`
}

// FlagSet is the serializable form of a toolchain.FlagSet.
type FlagSet struct {
	Actions []string    `json:"actions" toml:"actions" msgpack:"actions"`
	Groups  []FlagGroup `json:"flag_groups" toml:"flag_groups" msgpack:"flag_groups"`
}

// FlagGroup is the serializable form of a toolchain.FlagGroup.
type FlagGroup struct {
	Flags             []string `json:"flags" toml:"flags" msgpack:"flags"`
	IterateOver       string   `json:"iterate_over,omitempty" toml:"iterate_over,omitempty" msgpack:"iterate_over,omitempty"`
	ExpandIfAvailable string   `json:"expand_if_available,omitempty" toml:"expand_if_available,omitempty" msgpack:"expand_if_available,omitempty"`
}

// Metadata is the serializable form of toolchain.Metadata.
type Metadata struct {
	Identifier       string `json:"toolchain_identifier" toml:"toolchain_identifier" msgpack:"toolchain_identifier"`
	HostSystemName   string `json:"host_system_name" toml:"host_system_name" msgpack:"host_system_name"`
	TargetSystemName string `json:"target_system_name" toml:"target_system_name" msgpack:"target_system_name"`
	TargetLibc       string `json:"target_libc" toml:"target_libc" msgpack:"target_libc"`
	Compiler         string `json:"compiler" toml:"compiler" msgpack:"compiler"`
	ABIVersion       string `json:"abi_version" toml:"abi_version" msgpack:"abi_version"`
	ABILibcVersion   string `json:"abi_libc_version" toml:"abi_libc_version" msgpack:"abi_libc_version"`
}

// ConstraintLabels returns the platform labels a toolchain is registered with.
func ConstraintLabels(c toolchain.PlatformConstraint) []string {
	return []string{
		"@platforms//cpu:" + string(c.CPU),
		"@platforms//os:" + string(c.OS),
	}
}

// FromResolution converts a resolution into a record.
func FromResolution(res toolchain.Resolution) Record {
	switch r := res.(type) {
	case toolchain.Stub:
		return Record{
			Kind:        KindStub,
			Reason:      r.Reason,
			Constraints: []string{IncompatibleConstraint},
		}
	case *toolchain.Descriptor:
		return fromDescriptor(r)
	default:
		panic(fmt.Sprintf("render: unknown resolution %T", res))
	}
}

func fromDescriptor(d *toolchain.Descriptor) Record {
	constraint, _ := d.Constraint()

	tools := d.Tools()
	paths := make(map[string]string, len(toolchain.Roles))
	for _, role := range toolchain.Roles {
		paths[role.String()] = tools.Path(role)
	}

	features := d.Features()
	out := make([]Feature, len(features))
	for i, f := range features {
		out[i] = fromFeature(f)
	}

	m := d.Metadata()

	return Record{
		Kind:               KindToolchain,
		Triple:             string(d.Triple()),
		Constraints:        ConstraintLabels(constraint),
		ToolPaths:          paths,
		IncludeDirectories: d.IncludeDirectories(),
		Features:           out,
		Metadata: &Metadata{
			Identifier:       m.Identifier,
			HostSystemName:   m.HostSystemName,
			TargetSystemName: m.TargetSystemName,
			TargetLibc:       m.TargetLibc,
			Compiler:         m.Compiler,
			ABIVersion:       m.ABIVersion,
			ABILibcVersion:   m.ABILibcVersion,
		},
	}
}

func fromFeature(f toolchain.Feature) Feature {
	sets := make([]FlagSet, len(f.FlagSets))
	for i, s := range f.FlagSets {
		acts := make([]string, len(s.Actions))
		for j, a := range s.Actions {
			acts[j] = string(a)
		}

		groups := make([]FlagGroup, len(s.Groups))
		for j, g := range s.Groups {
			groups[j] = FlagGroup{
				Flags:             g.Flags,
				IterateOver:       g.Variable,
				ExpandIfAvailable: g.Variable,
			}
		}

		sets[i] = FlagSet{Actions: acts, Groups: groups}
	}

	return Feature{Name: f.Name, Enabled: f.Enabled, FlagSets: sets}
}

// Format is an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatTOML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: json, toml)", s)
	}
}

// Encode writes the records in the given format. JSON output is a single
// record or, for several, an array; TOML output is a [[toolchain]] array.
func Encode(w io.Writer, format Format, records ...Record) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if len(records) == 1 {
			return enc.Encode(records[0])
		}
		return enc.Encode(records)
	case FormatTOML:
		return toml.NewEncoder(w).Encode(struct {
			Toolchains []Record `toml:"toolchain"`
		}{records})
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
