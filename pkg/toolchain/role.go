package toolchain

// A Role is a tool a C/C++ toolchain descriptor needs a path for.
type Role int

const (
	RoleCC Role = iota
	RoleCXX
	RoleAR
	RoleLD
	RoleStrip
	RoleNM
	RoleObjcopy
	RoleObjdump
	RoleGcov
	RoleDWP
	RoleCPP
)

// Roles lists every role in resolution order. The C compiler comes first
// because the other roles fall back to it.
var Roles = []Role{
	RoleCC,
	RoleCXX,
	RoleAR,
	RoleLD,
	RoleStrip,
	RoleNM,
	RoleObjcopy,
	RoleObjdump,
	RoleGcov,
	RoleDWP,
	RoleCPP,
}

var roleNames = [...]string{
	RoleCC:      "gcc",
	RoleCXX:     "g++",
	RoleAR:      "ar",
	RoleLD:      "ld",
	RoleStrip:   "strip",
	RoleNM:      "nm",
	RoleObjcopy: "objcopy",
	RoleObjdump: "objdump",
	RoleGcov:    "gcov",
	RoleDWP:     "dwp",
	RoleCPP:     "cpp",
}

// String returns the conventional base name of the role's executable, which
// is also the key descriptors use for the role.
func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return "unknown"
	}
	return roleNames[r]
}

// Mandatory reports whether discovery fails when the role's executable is missing.
func (r Role) Mandatory() bool {
	switch r {
	case RoleCC, RoleCXX, RoleAR, RoleLD:
		return true
	}
	return false
}

// Searched reports whether discovery looks the role up on the search path.
// Unsearched roles are rarely invoked and always resolve to the C compiler.
func (r Role) Searched() bool {
	switch r {
	case RoleGcov, RoleDWP, RoleCPP:
		return false
	}
	return true
}

// ToolSet maps every role to an absolute executable path.
type ToolSet struct {
	paths map[Role]string
}

// Path returns the executable resolved for the role.
func (s ToolSet) Path(r Role) string {
	return s.paths[r]
}

// Paths returns a copy of the role to path mapping.
func (s ToolSet) Paths() map[Role]string {
	out := make(map[Role]string, len(s.paths))
	for r, p := range s.paths {
		out[r] = p
	}
	return out
}
