package toolchain

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// A NamingScheme computes the executable name of a role for a tool prefix and suffix.
type NamingScheme func(role Role, prefix, suffix string) string

// GenericNaming concatenates the prefix, the role's base name and the suffix,
// e.g. "aarch64-linux-gnu-" + "gcc" + "-12".
func GenericNaming(role Role, prefix, suffix string) string {
	return prefix + role.String() + suffix
}

var emscriptenNames = map[Role]string{
	RoleCC:      "emcc",
	RoleCXX:     "em++",
	RoleAR:      "emar",
	RoleLD:      "emcc",
	RoleStrip:   "emstrip",
	RoleNM:      "emnm",
	RoleObjcopy: "llvm-objcopy",
	RoleObjdump: "llvm-objdump",
	RoleGcov:    "emcc",
	RoleDWP:     "llvm-dwp",
	RoleCPP:     "emcc",
}

// EmscriptenNaming returns the fixed Emscripten tool names. The prefix and
// suffix are ignored because Emscripten does not follow the generic convention.
func EmscriptenNaming(role Role, _, _ string) string {
	return emscriptenNames[role]
}

// EmscriptenPrefix is the tool prefix that selects EmscriptenNaming.
const EmscriptenPrefix = "em"

func init() {
	RegisterNaming(EmscriptenPrefix, EmscriptenNaming)
}

var (
	namings      = map[string]NamingScheme{}
	namingsNames []string // provide ordered iteration for the map
	namingsMutex sync.RWMutex
)

// RegisterNaming makes a naming scheme replace GenericNaming for tools with
// exactly the given prefix. If a scheme for the prefix already exists or the
// provided scheme is nil, this function panics. If the prefix has path
// separators or path list separators, this function panics.
func RegisterNaming(prefix string, scheme NamingScheme) {
	namingsMutex.Lock()
	defer namingsMutex.Unlock()

	if !isValidPrefix(prefix) {
		panic(fmt.Sprintf("toolchain: naming prefix %q has invalid characters", prefix))
	}

	if namings[prefix] != nil {
		panic(fmt.Sprintf("toolchain: naming for prefix %q is already registered", prefix))
	}

	if scheme == nil {
		panic(fmt.Sprintf("toolchain: naming provided for prefix %q is nil", prefix))
	}

	namings[prefix] = scheme
	namingsNames = append(namingsNames, prefix)
}

// RegisteredNamings returns the prefixes with a dedicated naming scheme, in
// registration order.
func RegisteredNamings() []string {
	namingsMutex.RLock()
	defer namingsMutex.RUnlock()

	return append([]string(nil), namingsNames...)
}

// NamingFor returns the naming scheme used for a prefix.
func NamingFor(prefix string) NamingScheme {
	namingsMutex.RLock()
	defer namingsMutex.RUnlock()

	if scheme := namings[prefix]; scheme != nil {
		return scheme
	}

	return GenericNaming
}

func isValidPrefix(prefix string) bool {
	return !strings.ContainsAny(prefix, string([]rune{os.PathSeparator, os.PathListSeparator}))
}
