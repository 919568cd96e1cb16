package toolchain

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// A Searcher locates executables by name.
type Searcher interface {
	// Search returns the absolute path of the named executable and whether it was found.
	Search(name string) (string, bool)
}

// PathSearcher searches the directories of an explicit PATH-style list. Unlike
// exec.LookPath it never consults the PATH of the current process.
type PathSearcher struct {
	Path string
}

var _ Searcher = PathSearcher{}

func (s PathSearcher) Search(name string) (string, bool) {
	if name == "" {
		return "", false
	}

	for _, dir := range filepath.SplitList(s.Path) {
		if dir == "" {
			continue
		}

		candidate := filepath.Join(dir, name)
		if !isExecutable(candidate) {
			continue
		}

		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}

		return abs, true
	}

	return "", false
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	if runtime.GOOS == "windows" {
		return true
	}

	return info.Mode().Perm()&0o111 != 0
}

// DefaultNoopTool is the executable optional roles resolve to when neither
// their own executable nor the C compiler could be found.
const DefaultNoopTool = "/bin/true"

// MissingRequiredToolError is returned when a mandatory role's executable is
// not on the search path.
type MissingRequiredToolError struct {
	Role   Role
	Tool   string
	Triple string
}

func (e *MissingRequiredToolError) Error() string {
	return fmt.Sprintf("toolchain: required tool %q (%s) for target %q not found in PATH, check the tool prefix and suffix", e.Tool, e.Role, e.Triple)
}

// A strategy tries to resolve a role; it reports false if it cannot.
type strategy func(role Role, resolved map[Role]string) (string, bool)

func search(searcher Searcher, name string) strategy {
	return func(Role, map[Role]string) (string, bool) {
		return searcher.Search(name)
	}
}

func fallbackTo(other Role) strategy {
	return func(_ Role, resolved map[Role]string) (string, bool) {
		path, ok := resolved[other]
		return path, ok && path != ""
	}
}

func noop(path string) strategy {
	return func(Role, map[Role]string) (string, bool) {
		return path, path != ""
	}
}

// DiscoverOption customizes Discover.
type DiscoverOption func(*discoverOptions)

type discoverOptions struct {
	noopTool string
}

// WithNoopTool sets the executable used when an optional role has no other
// candidate. It defaults to DefaultNoopTool.
func WithNoopTool(path string) DiscoverOption {
	return func(o *discoverOptions) {
		o.noopTool = path
	}
}

// Discover resolves every role to an executable path. The executable names
// come from NamingFor(prefix). Mandatory roles must be found on the search
// path, otherwise a MissingRequiredToolError naming the tool and the triple is
// returned. Optional roles fall back to the C compiler, then to the no-op tool.
func Discover(prefix, suffix string, triple Triple, searcher Searcher, opts ...DiscoverOption) (ToolSet, error) {
	o := discoverOptions{noopTool: DefaultNoopTool}
	for _, opt := range opts {
		opt(&o)
	}

	naming := NamingFor(prefix)
	resolved := make(map[Role]string, len(Roles))

	for _, role := range Roles {
		name := naming(role, prefix, suffix)

		var chain []strategy
		switch {
		case role.Mandatory():
			chain = []strategy{search(searcher, name)}
		case role.Searched():
			chain = []strategy{search(searcher, name), fallbackTo(RoleCC), noop(o.noopTool)}
		default:
			chain = []strategy{fallbackTo(RoleCC), noop(o.noopTool)}
		}

		path, ok := resolve(role, resolved, chain)
		if !ok {
			if role.Mandatory() {
				return ToolSet{}, &MissingRequiredToolError{Role: role, Tool: name, Triple: string(triple)}
			}
			path = o.noopTool
		}

		resolved[role] = path
	}

	return ToolSet{paths: resolved}, nil
}

func resolve(role Role, resolved map[Role]string, chain []strategy) (string, bool) {
	for _, s := range chain {
		if path, ok := s(role, resolved); ok {
			return path, true
		}
	}

	return "", false
}
