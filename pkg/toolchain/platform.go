package toolchain

import "strings"

// CPU is a platform CPU capability tag.
type CPU string

// The CPU tags a triple can be classified to.
const (
	CPUX86_32    CPU = "x86_32"
	CPUX86_64    CPU = "x86_64"
	CPUAArch64   CPU = "aarch64"
	CPUArm64_32  CPU = "arm64_32"
	CPUArm64e    CPU = "arm64e"
	CPUArm       CPU = "arm"
	CPUArmv6M    CPU = "armv6-m"
	CPUArmv7     CPU = "armv7"
	CPUArmv7M    CPU = "armv7-m"
	CPUArmv7EM   CPU = "armv7e-m"
	CPUArmv7EMF  CPU = "armv7e-mf"
	CPUArmv7K    CPU = "armv7k"
	CPUArmv8M    CPU = "armv8-m"
	CPUArmv8R    CPU = "armv8-r"
	CPUWasm32    CPU = "wasm32"
	CPUWasm64    CPU = "wasm64"
	CPUPPC       CPU = "ppc"
	CPUPPC32     CPU = "ppc32"
	CPUPPC64LE   CPU = "ppc64le"
	CPURISCV32   CPU = "riscv32"
	CPURISCV64   CPU = "riscv64"
	CPUMIPS64    CPU = "mips64"
	CPUS390X     CPU = "s390x"
)

// OS is a platform operating system capability tag.
type OS string

// The OS tags a triple can be classified to.
const (
	OSAndroid    OS = "android"
	OSEmscripten OS = "emscripten"
	OSWASI       OS = "wasi"
	OSWindows    OS = "windows"
	OSMacOS      OS = "macos"
	OSIOS        OS = "ios"
	OSTvOS       OS = "tvos"
	OSWatchOS    OS = "watchos"
	OSVisionOS   OS = "visionos"
	OSFreeBSD    OS = "freebsd"
	OSNetBSD     OS = "netbsd"
	OSOpenBSD    OS = "openbsd"
	OSFuchsia    OS = "fuchsia"
	OSHaiku      OS = "haiku"
	OSQNX        OS = "qnx"
	OSUEFI       OS = "uefi"
	OSVxWorks    OS = "vxworks"
	OSNone       OS = "none"
	OSLinux      OS = "linux"
)

const (
	defaultCPU = CPUX86_64
	defaultOS  = OSLinux
)

type archEntry struct {
	arch string
	cpu  CPU
}

// archTable is matched exactly first, then by prefix in this order. A key
// that is a prefix of another key must come after it.
var archTable = []archEntry{
	{"x86_64", CPUX86_64},
	{"amd64", CPUX86_64},
	{"i386", CPUX86_32},
	{"i486", CPUX86_32},
	{"i586", CPUX86_32},
	{"i686", CPUX86_32},
	{"aarch64_be", CPUAArch64},
	{"aarch64", CPUAArch64},
	{"arm64_32", CPUArm64_32},
	{"arm64ec", CPUAArch64},
	{"arm64e", CPUArm64e},
	{"arm64", CPUAArch64},
	{"armv7em", CPUArmv7EM},
	{"armv7m", CPUArmv7M},
	{"armv7k", CPUArmv7K},
	{"thumbv6m", CPUArmv6M},
	{"thumbv7em", CPUArmv7EM},
	{"thumbv7m", CPUArmv7M},
	{"thumbv8m.main", CPUArmv8M},
	{"thumbv8m.base", CPUArmv8M},
	{"armv8r", CPUArmv8R},
	{"armebv7r", CPUArmv7},
	{"armv7r", CPUArmv7},
	{"armv7a", CPUArmv7},
	{"armv7", CPUArmv7},
	{"wasm32", CPUWasm32},
	{"wasm64", CPUWasm64},
	{"powerpc64le", CPUPPC64LE},
	{"powerpc64", CPUPPC},
	{"powerpc", CPUPPC32},
	{"ppc64le", CPUPPC64LE},
	{"ppc64", CPUPPC},
	{"ppc", CPUPPC32},
	{"riscv64gc", CPURISCV64},
	{"riscv64", CPURISCV64},
	{"riscv32imac", CPURISCV32},
	{"riscv32imc", CPURISCV32},
	{"riscv32", CPURISCV32},
	{"mips64el", CPUMIPS64},
	{"mips64", CPUMIPS64},
	{"s390x", CPUS390X},
}

type osEntry struct {
	substr string
	os     OS
}

// osTable is scanned in order against the whole triple; the first contained
// substring wins.
var osTable = []osEntry{
	{"android", OSAndroid},
	{"emscripten", OSEmscripten},
	{"wasi", OSWASI},
	{"windows", OSWindows},
	{"mingw", OSWindows},
	{"darwin", OSMacOS},
	{"macos", OSMacOS},
	{"watchos", OSWatchOS},
	{"tvos", OSTvOS},
	{"visionos", OSVisionOS},
	{"ios", OSIOS},
	{"freebsd", OSFreeBSD},
	{"netbsd", OSNetBSD},
	{"openbsd", OSOpenBSD},
	{"fuchsia", OSFuchsia},
	{"haiku", OSHaiku},
	{"nto", OSQNX},
	{"qnx", OSQNX},
	{"uefi", OSUEFI},
	{"vxworks", OSVxWorks},
	{"linux", OSLinux},
	{"none", OSNone},
}

// ClassifyCPU maps the architecture component of a triple to a CPU tag.
// Architectures that are not recognized resolve to x86_64, which must not be
// read as a statement about the hardware.
func ClassifyCPU(arch string) CPU {
	for _, e := range archTable {
		if e.arch == arch {
			return e.cpu
		}
	}

	for _, e := range archTable {
		if strings.HasPrefix(arch, e.arch) {
			return e.cpu
		}
	}

	if cpu, ok := classifyArmVariant(arch); ok {
		return cpu
	}

	return defaultCPU
}

// classifyArmVariant guesses the profile of 32-bit ARM architectures that are
// not in archTable from the version and profile letters following the "v".
func classifyArmVariant(arch string) (CPU, bool) {
	var rest string
	switch {
	case strings.HasPrefix(arch, "thumb"):
		rest = strings.TrimPrefix(arch, "thumb")
	case strings.HasPrefix(arch, "arm"):
		rest = strings.TrimPrefix(arch, "arm")
	default:
		return "", false
	}

	switch {
	case strings.Contains(rest, "v8"):
		if profile := after(rest, "v8"); strings.Contains(profile, "m") {
			return CPUArmv8M, true
		}
		return CPUArmv7, true
	case strings.Contains(rest, "v7"):
		profile := after(rest, "v7")
		switch {
		case strings.Contains(profile, "em"):
			return CPUArmv7EM, true
		case strings.Contains(profile, "m"):
			return CPUArmv7M, true
		case strings.Contains(profile, "k"):
			return CPUArmv7K, true
		}
		return CPUArmv7, true
	case strings.Contains(rest, "v6"):
		if strings.Contains(after(rest, "v6"), "m") {
			return CPUArmv6M, true
		}
		return CPUArm, true
	}

	return CPUArm, true
}

func after(s, sep string) string {
	if i := strings.Index(s, sep); i >= 0 {
		return s[i+len(sep):]
	}
	return ""
}

// ClassifyOS returns the OS tag of the first osTable substring found anywhere
// in the triple, or linux if none is found.
func ClassifyOS(t Triple) OS {
	for _, e := range osTable {
		if strings.Contains(string(t), e.substr) {
			return e.os
		}
	}

	return defaultOS
}
