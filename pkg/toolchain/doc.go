/*
Package toolchain resolves C/C++ toolchain descriptors from environment state.

A resolution classifies a target triple into platform capability tags,
discovers the toolchain's executables on a search path from a prefix/suffix
naming convention, collects the compiler's builtin include directories and
attaches a fixed table of compile and link features. When the environment does
not request a toolchain at all, a Stub with unsatisfiable constraints is
produced instead, so callers can always register something.

Process execution and path lookup sit behind small interfaces (Searcher,
IncludeExtractor), so everything except the include probe is pure.
*/
package toolchain
