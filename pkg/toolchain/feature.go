package toolchain

import "strings"

// An Action is a build step kind a flag set applies to.
type Action string

const (
	ActionCCompile                    Action = "c-compile"
	ActionCXXCompile                  Action = "c++-compile"
	ActionAssemble                    Action = "assemble"
	ActionPreprocessAssemble          Action = "preprocess-assemble"
	ActionCXXHeaderParsing            Action = "c++-header-parsing"
	ActionCXXModuleCompile            Action = "c++-module-compile"
	ActionLinkstampCompile            Action = "linkstamp-compile"
	ActionCXXLinkExecutable           Action = "c++-link-executable"
	ActionCXXLinkDynamicLibrary       Action = "c++-link-dynamic-library"
	ActionCXXLinkNodepsDynamicLibrary Action = "c++-link-nodeps-dynamic-library"
)

var (
	// CompileActions are the actions that invoke the compiler on a source file.
	CompileActions = []Action{
		ActionCCompile,
		ActionCXXCompile,
		ActionAssemble,
		ActionPreprocessAssemble,
		ActionCXXHeaderParsing,
		ActionCXXModuleCompile,
		ActionLinkstampCompile,
	}
	// CXXCompileActions are the compile actions that only apply to C++ sources.
	CXXCompileActions = []Action{
		ActionCXXCompile,
		ActionCXXHeaderParsing,
		ActionCXXModuleCompile,
		ActionLinkstampCompile,
	}
	// LinkActions are the actions that invoke the linker.
	LinkActions = []Action{
		ActionCXXLinkExecutable,
		ActionCXXLinkDynamicLibrary,
		ActionCXXLinkNodepsDynamicLibrary,
	}
	// preprocessorActions are the compile actions that run the preprocessor.
	preprocessorActions = []Action{
		ActionCCompile,
		ActionCXXCompile,
		ActionPreprocessAssemble,
		ActionCXXHeaderParsing,
		ActionCXXModuleCompile,
		ActionLinkstampCompile,
	}
)

// Feature names, in the order Features returns them.
const (
	FeatureDefaultCompileFlags      = "default_compile_flags"
	FeatureDefaultLinkFlags         = "default_link_flags"
	FeatureUserCompileFlags         = "user_compile_flags"
	FeatureUserLinkFlags            = "user_link_flags"
	FeaturePreprocessorDefines      = "preprocessor_defines"
	FeatureIncludePaths             = "include_paths"
	FeatureLibrarySearchDirectories = "library_search_directories"
	FeatureLinkstamps               = "linkstamps"
)

// Build variables the feature table expands.
const (
	VarUserCompileFlags         = "user_compile_flags"
	VarUserLinkFlags            = "user_link_flags"
	VarPreprocessorDefines      = "preprocessor_defines"
	VarIncludes                 = "includes"
	VarQuoteIncludePaths        = "quote_include_paths"
	VarIncludePaths             = "include_paths"
	VarSystemIncludePaths       = "system_include_paths"
	VarLibrarySearchDirectories = "library_search_directories"
	VarLinkstampPaths           = "linkstamp_paths"
)

// A Feature is a named rule contributing flags to a set of actions.
type Feature struct {
	Name     string
	Enabled  bool
	FlagSets []FlagSet
}

// A FlagSet adds flags to the actions it lists. Every group is expanded in order.
type FlagSet struct {
	Actions []Action
	Groups  []FlagGroup
}

// A FlagGroup is either a literal flag list, or, when Variable is set, a
// template expanded once per value of the variable. Every "%{Variable}" in
// Flags is replaced by the value. A variable group expands to nothing when
// the variable is not available.
type FlagGroup struct {
	Flags    []string
	Variable string
}

// Variables holds build variable values keyed by name.
type Variables map[string][]string

// Available reports whether the variable has at least one value.
func (v Variables) Available(name string) bool {
	return len(v[name]) > 0
}

func literal(flags ...string) FlagGroup {
	return FlagGroup{Flags: flags}
}

func expand(variable string, flags ...string) FlagGroup {
	return FlagGroup{Flags: flags, Variable: variable}
}

// Features returns the toolchain's feature table. The table is the same on
// every call and a fresh copy is returned each time. Default flags precede
// user flags so that user flags win, and include groups go from forced
// includes over quote and plain includes to system includes.
func Features() []Feature {
	return []Feature{
		{
			Name:    FeatureDefaultCompileFlags,
			Enabled: true,
			FlagSets: []FlagSet{
				{
					Actions: actions(CompileActions...),
					Groups:  []FlagGroup{literal("-fPIC", "-ffunction-sections", "-fdata-sections", "-g")},
				},
				{
					Actions: actions(CXXCompileActions...),
					Groups:  []FlagGroup{literal("-std=c++17")},
				},
			},
		},
		{
			Name:    FeatureDefaultLinkFlags,
			Enabled: true,
			FlagSets: []FlagSet{{
				Actions: actions(LinkActions...),
				Groups:  []FlagGroup{literal("-Wl,--gc-sections", "-Wl,--build-id=md5", "-lstdc++", "-lm")},
			}},
		},
		{
			Name:    FeatureUserCompileFlags,
			Enabled: true,
			FlagSets: []FlagSet{{
				Actions: actions(CompileActions...),
				Groups:  []FlagGroup{expand(VarUserCompileFlags, "%{"+VarUserCompileFlags+"}")},
			}},
		},
		{
			Name:    FeatureUserLinkFlags,
			Enabled: true,
			FlagSets: []FlagSet{{
				Actions: actions(LinkActions...),
				Groups:  []FlagGroup{expand(VarUserLinkFlags, "%{"+VarUserLinkFlags+"}")},
			}},
		},
		{
			Name:    FeaturePreprocessorDefines,
			Enabled: true,
			FlagSets: []FlagSet{{
				Actions: actions(preprocessorActions...),
				Groups:  []FlagGroup{expand(VarPreprocessorDefines, "-D%{"+VarPreprocessorDefines+"}")},
			}},
		},
		{
			Name:    FeatureIncludePaths,
			Enabled: true,
			FlagSets: []FlagSet{{
				Actions: actions(preprocessorActions...),
				Groups: []FlagGroup{
					expand(VarIncludes, "-include", "%{"+VarIncludes+"}"),
					expand(VarQuoteIncludePaths, "-iquote", "%{"+VarQuoteIncludePaths+"}"),
					expand(VarIncludePaths, "-I%{"+VarIncludePaths+"}"),
					expand(VarSystemIncludePaths, "-isystem", "%{"+VarSystemIncludePaths+"}"),
				},
			}},
		},
		{
			Name:    FeatureLibrarySearchDirectories,
			Enabled: true,
			FlagSets: []FlagSet{{
				Actions: actions(LinkActions...),
				Groups:  []FlagGroup{expand(VarLibrarySearchDirectories, "-L%{"+VarLibrarySearchDirectories+"}")},
			}},
		},
		{
			Name:    FeatureLinkstamps,
			Enabled: true,
			FlagSets: []FlagSet{{
				Actions: actions(LinkActions...),
				Groups:  []FlagGroup{expand(VarLinkstampPaths, "%{"+VarLinkstampPaths+"}")},
			}},
		},
	}
}

func actions(a ...Action) []Action {
	return append([]Action(nil), a...)
}

// Expand renders the flags the enabled features contribute to an action, in
// feature order.
func Expand(features []Feature, action Action, vars Variables) []string {
	var out []string

	for _, f := range features {
		if !f.Enabled {
			continue
		}

		for _, set := range f.FlagSets {
			if !set.appliesTo(action) {
				continue
			}

			for _, g := range set.Groups {
				out = append(out, g.expand(vars)...)
			}
		}
	}

	return out
}

func (s FlagSet) appliesTo(action Action) bool {
	for _, a := range s.Actions {
		if a == action {
			return true
		}
	}
	return false
}

func (g FlagGroup) expand(vars Variables) []string {
	if g.Variable == "" {
		return append([]string(nil), g.Flags...)
	}

	if !vars.Available(g.Variable) {
		return nil
	}

	placeholder := "%{" + g.Variable + "}"
	out := make([]string, 0, len(vars[g.Variable])*len(g.Flags))
	for _, value := range vars[g.Variable] {
		for _, flag := range g.Flags {
			out = append(out, strings.ReplaceAll(flag, placeholder, value))
		}
	}

	return out
}
