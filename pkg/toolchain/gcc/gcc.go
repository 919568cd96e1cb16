/*
Package gcc probes GCC-compatible compiler drivers (gcc, clang, emcc) for the
information a toolchain descriptor needs from them.

It collects the builtin include directories a driver reports with -v.
*/
package gcc

import (
	"context"
	"io"
	"log"
	"os/exec"
	"time"

	"github.com/tmaxmax/crosscc/pkg/toolchain"
)

// DefaultTimeout bounds a single compiler probe.
const DefaultTimeout = 10 * time.Second

var execCommandContext = exec.CommandContext

// Option customizes a probe.
type Option func(*options)

type options struct {
	timeout time.Duration
	logger  *log.Logger
}

func newOptions(opts []Option) options {
	o := options{timeout: DefaultTimeout, logger: log.New(io.Discard, "", 0)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithTimeout bounds how long the compiler may run. Non-positive values
// select DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger reports probe outcomes to the logger.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// IncludeExtractor returns a toolchain.IncludeExtractor that probes with the given options.
func IncludeExtractor(opts ...Option) toolchain.IncludeExtractor {
	return toolchain.IncludeExtractorFunc(func(ctx context.Context, compilerPath string) []string {
		return ExtractIncludes(ctx, compilerPath, opts...)
	})
}
