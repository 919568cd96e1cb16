package toolchain_test

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tmaxmax/crosscc/pkg/toolchain"
)

// fakeSearcher finds the executables it lists under /opt/cross/bin and
// records every name it was asked for.
type fakeSearcher struct {
	names    map[string]bool
	searched []string
}

func newFakeSearcher(names ...string) *fakeSearcher {
	s := &fakeSearcher{names: map[string]bool{}}
	for _, name := range names {
		s.names[name] = true
	}
	return s
}

func (s *fakeSearcher) Search(name string) (string, bool) {
	s.searched = append(s.searched, name)
	if !s.names[name] {
		return "", false
	}
	return "/opt/cross/bin/" + name, true
}

func TestDiscover_OptionalToolsFallBackToCompiler(t *testing.T) {
	const prefix = "aarch64-linux-gnu-"
	s := newFakeSearcher(prefix+"gcc", prefix+"g++", prefix+"ar", prefix+"ld")

	tools, err := toolchain.Discover(prefix, "", "aarch64-unknown-linux-gnu", s)
	require.NoError(t, err)

	gcc := "/opt/cross/bin/" + prefix + "gcc"
	require.Equal(t, gcc, tools.Path(toolchain.RoleCC))
	require.Equal(t, "/opt/cross/bin/"+prefix+"g++", tools.Path(toolchain.RoleCXX))
	require.Equal(t, "/opt/cross/bin/"+prefix+"ar", tools.Path(toolchain.RoleAR))
	require.Equal(t, "/opt/cross/bin/"+prefix+"ld", tools.Path(toolchain.RoleLD))

	for _, role := range []toolchain.Role{
		toolchain.RoleStrip,
		toolchain.RoleNM,
		toolchain.RoleObjcopy,
		toolchain.RoleObjdump,
		toolchain.RoleGcov,
		toolchain.RoleDWP,
		toolchain.RoleCPP,
	} {
		require.Equalf(t, gcc, tools.Path(role), "Unexpected path for %s", role)
	}

	require.Len(t, tools.Paths(), len(toolchain.Roles))
	require.NotContains(t, s.searched, prefix+"gcov", "Coverage tool must not be searched")
	require.NotContains(t, s.searched, prefix+"dwp", "DWARF packager must not be searched")
}

func TestDiscover_Suffix(t *testing.T) {
	s := newFakeSearcher("gcc-12", "g++-12", "ar-12", "ld-12", "strip-12")

	tools, err := toolchain.Discover("", "-12", "x86_64-linux-gnu", s)
	require.NoError(t, err)
	require.Equal(t, "/opt/cross/bin/g++-12", tools.Path(toolchain.RoleCXX))
	require.Equal(t, "/opt/cross/bin/strip-12", tools.Path(toolchain.RoleStrip))
	require.Equal(t, "/opt/cross/bin/gcc-12", tools.Path(toolchain.RoleNM))
}

func TestDiscover_Emscripten(t *testing.T) {
	s := newFakeSearcher("emcc", "em++", "emar", "emnm")

	tools, err := toolchain.Discover(toolchain.EmscriptenPrefix, "-ignored", "wasm32-unknown-emscripten", s)
	require.NoError(t, err)

	require.Equal(t, "/opt/cross/bin/emcc", tools.Path(toolchain.RoleCC))
	require.Equal(t, "/opt/cross/bin/em++", tools.Path(toolchain.RoleCXX))
	require.Equal(t, "/opt/cross/bin/emar", tools.Path(toolchain.RoleAR))
	require.Equal(t, "/opt/cross/bin/emcc", tools.Path(toolchain.RoleLD))
	require.Equal(t, "/opt/cross/bin/emnm", tools.Path(toolchain.RoleNM))
	require.Equal(t, "/opt/cross/bin/emcc", tools.Path(toolchain.RoleStrip))

	require.Subset(t, s.searched, []string{"emcc", "em++", "emar", "emstrip"})
	for _, name := range s.searched {
		require.NotContains(t, name, "-ignored")
	}
}

func TestDiscover_MissingRequiredTool(t *testing.T) {
	type test struct {
		name   string
		tools  []string
		role   toolchain.Role
		expect string
	}

	const prefix = "aarch64-linux-gnu-"

	tests := []test{
		{
			name:   "CCompiler",
			tools:  []string{prefix + "g++", prefix + "ar", prefix + "ld", prefix + "strip"},
			role:   toolchain.RoleCC,
			expect: prefix + "gcc",
		},
		{
			name:   "CXXCompiler",
			tools:  []string{prefix + "gcc", prefix + "ar", prefix + "ld"},
			role:   toolchain.RoleCXX,
			expect: prefix + "g++",
		},
		{
			name:   "Archiver",
			tools:  []string{prefix + "gcc", prefix + "g++", prefix + "ld"},
			role:   toolchain.RoleAR,
			expect: prefix + "ar",
		},
		{
			name:   "Linker",
			tools:  []string{prefix + "gcc", prefix + "g++", prefix + "ar"},
			role:   toolchain.RoleLD,
			expect: prefix + "ld",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := toolchain.Discover(prefix, "", "aarch64-unknown-linux-gnu", newFakeSearcher(tt.tools...))

			var missing *toolchain.MissingRequiredToolError
			require.True(t, errors.As(err, &missing), "Expected MissingRequiredToolError, got %v", err)
			require.Equal(t, tt.role, missing.Role)
			require.Equal(t, tt.expect, missing.Tool)
			require.Equal(t, "aarch64-unknown-linux-gnu", missing.Triple)
			require.Contains(t, err.Error(), tt.expect)
			require.Contains(t, err.Error(), "aarch64-unknown-linux-gnu")
		})
	}
}

func TestPathSearcher(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bits are not used on Windows")
	}

	first, second := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(first, "cc"), 0o644)
	writeFile(t, filepath.Join(second, "cc"), 0o755)
	writeFile(t, filepath.Join(first, "ar"), 0o755)
	writeFile(t, filepath.Join(second, "ar"), 0o755)
	require.NoError(t, os.Mkdir(filepath.Join(first, "ld"), 0o755))

	s := toolchain.PathSearcher{Path: first + string(os.PathListSeparator) + string(os.PathListSeparator) + second}

	path, ok := s.Search("cc")
	require.True(t, ok)
	require.Equal(t, filepath.Join(second, "cc"), path, "Non-executable files must be skipped")

	path, ok = s.Search("ar")
	require.True(t, ok)
	require.Equal(t, filepath.Join(first, "ar"), path, "Earlier PATH entries take precedence")

	_, ok = s.Search("ld")
	require.False(t, ok, "Directories are not executables")

	_, ok = s.Search("nm")
	require.False(t, ok)

	_, ok = s.Search("")
	require.False(t, ok)
}

func writeFile(tb testing.TB, path string, perm os.FileMode) {
	tb.Helper()

	require.NoError(tb, os.WriteFile(path, []byte("#!/bin/sh\n"), perm))
	require.NoError(tb, os.Chmod(path, perm))
}
