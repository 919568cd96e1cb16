package toolchain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tmaxmax/crosscc/pkg/toolchain"
)

func TestClassify(t *testing.T) {
	type test struct {
		triple string
		cpu    toolchain.CPU
		os     toolchain.OS
	}

	tests := []test{
		{"aarch64-unknown-linux-gnu", toolchain.CPUAArch64, toolchain.OSLinux},
		{"armv7-linux-androideabi", toolchain.CPUArmv7, toolchain.OSAndroid},
		{"wasm32-unknown-emscripten", toolchain.CPUWasm32, toolchain.OSEmscripten},
		{"x86_64-pc-windows-gnu", toolchain.CPUX86_64, toolchain.OSWindows},
		{"aarch64-linux-android", toolchain.CPUAArch64, toolchain.OSAndroid},
		{"i686-pc-windows-msvc", toolchain.CPUX86_32, toolchain.OSWindows},
		{"aarch64-apple-darwin", toolchain.CPUAArch64, toolchain.OSMacOS},
		{"arm64-apple-ios", toolchain.CPUAArch64, toolchain.OSIOS},
		{"arm64_32-apple-watchos", toolchain.CPUArm64_32, toolchain.OSWatchOS},
		{"arm64e-apple-tvos", toolchain.CPUArm64e, toolchain.OSTvOS},
		{"arm64ec-pc-windows-msvc", toolchain.CPUAArch64, toolchain.OSWindows},
		{"x86_64h-apple-darwin", toolchain.CPUX86_64, toolchain.OSMacOS},
		{"thumbv6m-none-eabi", toolchain.CPUArmv6M, toolchain.OSNone},
		{"thumbv7em-none-eabi", toolchain.CPUArmv7EM, toolchain.OSNone},
		{"thumbv7em-none-eabihf", toolchain.CPUArmv7EMF, toolchain.OSNone},
		{"thumbv8m.main-none-eabihf", toolchain.CPUArmv8M, toolchain.OSNone},
		{"armv8r-none-eabihf", toolchain.CPUArmv8R, toolchain.OSNone},
		{"thumbv7neon-linux-androideabi", toolchain.CPUArmv7, toolchain.OSAndroid},
		{"armv5te-unknown-linux-gnueabi", toolchain.CPUArm, toolchain.OSLinux},
		{"armv6m-none-eabi", toolchain.CPUArmv6M, toolchain.OSNone},
		{"arm-unknown-linux-gnueabihf", toolchain.CPUArm, toolchain.OSLinux},
		{"riscv64gc-unknown-linux-gnu", toolchain.CPURISCV64, toolchain.OSLinux},
		{"riscv32imac-unknown-none-elf", toolchain.CPURISCV32, toolchain.OSNone},
		{"powerpc64le-unknown-linux-gnu", toolchain.CPUPPC64LE, toolchain.OSLinux},
		{"powerpc-unknown-linux-gnu", toolchain.CPUPPC32, toolchain.OSLinux},
		{"mips64el-unknown-linux-gnuabi64", toolchain.CPUMIPS64, toolchain.OSLinux},
		{"s390x-ibm-linux", toolchain.CPUS390X, toolchain.OSLinux},
		{"wasm32-wasip1", toolchain.CPUWasm32, toolchain.OSWASI},
		{"x86_64-unknown-fuchsia", toolchain.CPUX86_64, toolchain.OSFuchsia},
		{"x86_64-pc-nto-qnx710", toolchain.CPUX86_64, toolchain.OSQNX},
		{"x86_64-unknown-freebsd", toolchain.CPUX86_64, toolchain.OSFreeBSD},
		{"x86_64-w64-mingw32", toolchain.CPUX86_64, toolchain.OSWindows},
		// Unknown architectures and systems fall back to the defaults.
		{"sparc64-unknown-netbsd", toolchain.CPUX86_64, toolchain.OSNetBSD},
		{"mipsel-unknown-linux-gnu", toolchain.CPUX86_64, toolchain.OSLinux},
		{"foo-bar", toolchain.CPUX86_64, toolchain.OSLinux},
		{"-", toolchain.CPUX86_64, toolchain.OSLinux},
	}

	for _, tt := range tests {
		t.Run(tt.triple, func(t *testing.T) {
			c, err := toolchain.Classify(toolchain.Triple(tt.triple))
			require.NoError(t, err)
			require.Equal(t, toolchain.PlatformConstraint{CPU: tt.cpu, OS: tt.os}, c)
		})
	}
}

func TestClassify_Invalid(t *testing.T) {
	for _, triple := range []string{"", "x86_64", "linux"} {
		t.Run(triple, func(t *testing.T) {
			_, err := toolchain.Classify(toolchain.Triple(triple))

			var invalid *toolchain.InvalidTripleError
			require.True(t, errors.As(err, &invalid), "Expected InvalidTripleError, got %v", err)
			require.Equal(t, triple, invalid.Triple)
			require.Contains(t, err.Error(), `"`+triple+`"`)
		})
	}
}

func TestClassifyOS_TableOrder(t *testing.T) {
	require.Equal(t, toolchain.OSAndroid, toolchain.ClassifyOS("aarch64-unknown-linux-android"))
	require.Equal(t, toolchain.OSVisionOS, toolchain.ClassifyOS("arm64-apple-visionos"))
	require.Equal(t, toolchain.OSMacOS, toolchain.ClassifyOS("x86_64-apple-macosx10.15"))
	require.Equal(t, toolchain.OSLinux, toolchain.ClassifyOS("x86_64-unknown-unknown"))
}

func TestTriple_Components(t *testing.T) {
	tr := toolchain.Triple("aarch64-unknown-linux-gnu")

	require.Equal(t, []string{"aarch64", "unknown", "linux", "gnu"}, tr.Components())
	require.Equal(t, "aarch64", tr.Arch())
	require.NoError(t, tr.Validate())
}
