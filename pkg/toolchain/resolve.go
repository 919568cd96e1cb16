package toolchain

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
)

// Env gives read access to environment variables. Presence matters: a
// variable set to the empty string is not the same as an unset one.
type Env interface {
	LookupEnv(key string) (string, bool)
}

// OSEnv reads the process environment.
type OSEnv struct{}

func (OSEnv) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapEnv is an Env backed by a map, for tests and explicit target lists.
type MapEnv map[string]string

func (m MapEnv) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// EnvNames are the environment variables a resolution reads.
type EnvNames struct {
	Triple string
	Prefix string
	Suffix string
	Path   string
}

// DefaultEnvNames returns the variable names used when none are configured.
func DefaultEnvNames() EnvNames {
	return EnvNames{
		Triple: "CROSS_TARGET",
		Prefix: "CROSS_TOOLCHAIN_PREFIX",
		Suffix: "CROSS_TOOLCHAIN_SUFFIX",
		Path:   "PATH",
	}
}

// Watched returns the variable names in a stable order.
func (n EnvNames) Watched() []string {
	return []string{n.Triple, n.Prefix, n.Suffix, n.Path}
}

// An IncludeExtractor returns the builtin include directories of a compiler.
// It must not fail: an empty result stands for "unknown".
type IncludeExtractor interface {
	ExtractIncludes(ctx context.Context, compilerPath string) []string
}

// IncludeExtractorFunc adapts a function to IncludeExtractor.
type IncludeExtractorFunc func(ctx context.Context, compilerPath string) []string

func (f IncludeExtractorFunc) ExtractIncludes(ctx context.Context, compilerPath string) []string {
	return f(ctx, compilerPath)
}

var noIncludes = IncludeExtractorFunc(func(context.Context, string) []string { return nil })

// Phase is a step of a resolution.
type Phase int

const (
	PhaseUnresolved Phase = iota
	PhaseClassifyingTriple
	PhaseDiscoveringTools
	PhaseExtractingIncludes
	PhaseAssembled
	PhaseStub
)

func (p Phase) String() string {
	switch p {
	case PhaseUnresolved:
		return "unresolved"
	case PhaseClassifyingTriple:
		return "classifying triple"
	case PhaseDiscoveringTools:
		return "discovering tools"
	case PhaseExtractingIncludes:
		return "extracting includes"
	case PhaseAssembled:
		return "assembled"
	case PhaseStub:
		return "stub"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// ResolveError wraps the error that aborted a resolution with the phase it
// happened in. Use errors.As to get at an *InvalidTripleError or a
// *MissingRequiredToolError.
type ResolveError struct {
	Phase Phase
	Err   error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("toolchain: %s: %v", e.Phase, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// ResolveOption customizes Resolve.
type ResolveOption func(*resolveOptions)

type resolveOptions struct {
	names     EnvNames
	logger    *log.Logger
	extractor IncludeExtractor
	searcher  Searcher
	discover  []DiscoverOption
}

// WithEnvNames changes the environment variables Resolve reads.
func WithEnvNames(names EnvNames) ResolveOption {
	return func(o *resolveOptions) {
		o.names = names
	}
}

// WithLogger makes Resolve log its phase transitions. A nil logger is silent.
func WithLogger(l *log.Logger) ResolveOption {
	return func(o *resolveOptions) {
		o.logger = l
	}
}

// WithIncludeExtractor sets how builtin include directories are collected.
// Without it, descriptors have no builtin include directories. A nil
// extractor is ignored.
func WithIncludeExtractor(e IncludeExtractor) ResolveOption {
	return func(o *resolveOptions) {
		if e != nil {
			o.extractor = e
		}
	}
}

// WithSearcher replaces the PathSearcher built from the environment's PATH.
func WithSearcher(s Searcher) ResolveOption {
	return func(o *resolveOptions) {
		o.searcher = s
	}
}

// WithDiscoverOptions passes options through to Discover.
func WithDiscoverOptions(opts ...DiscoverOption) ResolveOption {
	return func(o *resolveOptions) {
		o.discover = append(o.discover, opts...)
	}
}

type resolver struct {
	resolveOptions
	phase Phase
}

func (r *resolver) enter(p Phase) {
	r.logger.Printf("%s -> %s", r.phase, p)
	r.phase = p
}

func (r *resolver) fail(err error) error {
	return &ResolveError{Phase: r.phase, Err: err}
}

// Resolve builds the toolchain described by the environment. If neither the
// triple nor the prefix variable is set, it returns a Stub. Otherwise the
// triple is classified, the tools are discovered and the builtin include
// directories are collected into a *Descriptor. Classification and discovery
// errors abort the resolution; include extraction never does.
//
// A set but empty prefix is a native toolchain with unprefixed tool names. An
// unset triple with a set prefix fails classification.
func Resolve(ctx context.Context, env Env, opts ...ResolveOption) (Resolution, error) {
	r := resolver{
		resolveOptions: resolveOptions{
			names:     DefaultEnvNames(),
			extractor: noIncludes,
		},
	}
	for _, opt := range opts {
		opt(&r.resolveOptions)
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard, "", 0)
	}

	triple, hasTriple := env.LookupEnv(r.names.Triple)
	prefix, hasPrefix := env.LookupEnv(r.names.Prefix)
	suffix, _ := env.LookupEnv(r.names.Suffix)

	if !hasTriple && !hasPrefix {
		r.enter(PhaseStub)
		return Stub{Reason: fmt.Sprintf("neither %s nor %s is set", r.names.Triple, r.names.Prefix)}, nil
	}

	r.enter(PhaseClassifyingTriple)
	t := Triple(triple)
	constraint, err := Classify(t)
	if err != nil {
		return nil, r.fail(err)
	}
	r.logger.Printf("target %s classified as %s", t, constraint)

	r.enter(PhaseDiscoveringTools)
	searcher := r.searcher
	if searcher == nil {
		path, _ := env.LookupEnv(r.names.Path)
		searcher = PathSearcher{Path: path}
	}
	tools, err := Discover(prefix, suffix, t, searcher, r.discover...)
	if err != nil {
		return nil, r.fail(err)
	}

	r.enter(PhaseExtractingIncludes)
	includes := append([]string(nil), r.extractor.ExtractIncludes(ctx, tools.Path(RoleCXX))...)
	r.logger.Printf("%d builtin include directories", len(includes))

	r.enter(PhaseAssembled)
	return &Descriptor{
		triple:     t,
		constraint: constraint,
		tools:      tools,
		includes:   includes,
		features:   Features(),
		metadata:   newMetadata(t),
	}, nil
}
