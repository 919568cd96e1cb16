package toolchain_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tmaxmax/crosscc/pkg/toolchain"
)

var featureOrder = []string{
	toolchain.FeatureDefaultCompileFlags,
	toolchain.FeatureDefaultLinkFlags,
	toolchain.FeatureUserCompileFlags,
	toolchain.FeatureUserLinkFlags,
	toolchain.FeaturePreprocessorDefines,
	toolchain.FeatureIncludePaths,
	toolchain.FeatureLibrarySearchDirectories,
	toolchain.FeatureLinkstamps,
}

func featureNames(features []toolchain.Feature) []string {
	names := make([]string, len(features))
	for i, f := range features {
		names[i] = f.Name
	}
	return names
}

func TestFeatures_Order(t *testing.T) {
	for i := 0; i < 3; i++ {
		features := toolchain.Features()
		require.Equal(t, featureOrder, featureNames(features))

		for _, f := range features {
			require.Truef(t, f.Enabled, "Feature %s must be enabled", f.Name)
		}
	}
}

func TestFeatures_FreshCopy(t *testing.T) {
	first := toolchain.Features()
	first[0].Name = "changed"
	first[0].FlagSets[0].Groups[0].Flags[0] = "-changed"

	second := toolchain.Features()
	require.Equal(t, toolchain.FeatureDefaultCompileFlags, second[0].Name)
	require.Equal(t, "-fPIC", second[0].FlagSets[0].Groups[0].Flags[0])
}

func TestExpand(t *testing.T) {
	type test struct {
		name   string
		action toolchain.Action
		vars   toolchain.Variables
		expect []string
	}

	full := toolchain.Variables{
		toolchain.VarUserCompileFlags:         {"-O2", "-Wall"},
		toolchain.VarUserLinkFlags:            {"-static"},
		toolchain.VarPreprocessorDefines:      {"FOO", "BAR=1"},
		toolchain.VarIncludes:                 {"pch.h"},
		toolchain.VarQuoteIncludePaths:        {"quote"},
		toolchain.VarIncludePaths:             {"inc", "third_party/inc"},
		toolchain.VarSystemIncludePaths:       {"sys"},
		toolchain.VarLibrarySearchDirectories: {"lib"},
		toolchain.VarLinkstampPaths:           {"bazel-out/stamp.o"},
	}

	tests := []test{
		{
			name:   "CCompileDefaults",
			action: toolchain.ActionCCompile,
			expect: []string{"-fPIC", "-ffunction-sections", "-fdata-sections", "-g"},
		},
		{
			name:   "CXXCompileDefaults",
			action: toolchain.ActionCXXCompile,
			vars:   toolchain.Variables{toolchain.VarIncludePaths: {}},
			expect: []string{"-fPIC", "-ffunction-sections", "-fdata-sections", "-g", "-std=c++17"},
		},
		{
			name:   "CXXCompileFull",
			action: toolchain.ActionCXXCompile,
			vars:   full,
			expect: []string{
				"-fPIC", "-ffunction-sections", "-fdata-sections", "-g", "-std=c++17",
				"-O2", "-Wall",
				"-DFOO", "-DBAR=1",
				"-include", "pch.h",
				"-iquote", "quote",
				"-Iinc", "-Ithird_party/inc",
				"-isystem", "sys",
			},
		},
		{
			name:   "AssembleSkipsPreprocessor",
			action: toolchain.ActionAssemble,
			vars:   full,
			expect: []string{"-fPIC", "-ffunction-sections", "-fdata-sections", "-g", "-O2", "-Wall"},
		},
		{
			name:   "LinkDefaults",
			action: toolchain.ActionCXXLinkExecutable,
			expect: []string{"-Wl,--gc-sections", "-Wl,--build-id=md5", "-lstdc++", "-lm"},
		},
		{
			name:   "LinkFull",
			action: toolchain.ActionCXXLinkDynamicLibrary,
			vars:   full,
			expect: []string{
				"-Wl,--gc-sections", "-Wl,--build-id=md5", "-lstdc++", "-lm",
				"-static",
				"-Llib",
				"bazel-out/stamp.o",
			},
		},
		{
			name:   "UnknownAction",
			action: "objc-compile",
			vars:   full,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expect, toolchain.Expand(toolchain.Features(), tt.action, tt.vars))
		})
	}
}

func TestExpand_DisabledFeature(t *testing.T) {
	features := toolchain.Features()
	features[0].Enabled = false

	flags := toolchain.Expand(features, toolchain.ActionCCompile, toolchain.Variables{
		toolchain.VarUserCompileFlags: {"-O3"},
	})
	require.Equal(t, []string{"-O3"}, flags)
}

func TestFeatures_UserFlagsFollowDefaults(t *testing.T) {
	index := map[string]int{}
	for i, name := range featureNames(toolchain.Features()) {
		index[name] = i
	}

	require.Less(t, index[toolchain.FeatureDefaultCompileFlags], index[toolchain.FeatureUserCompileFlags])
	require.Less(t, index[toolchain.FeatureDefaultLinkFlags], index[toolchain.FeatureUserLinkFlags])
}
