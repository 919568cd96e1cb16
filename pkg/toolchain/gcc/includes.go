package gcc

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/docker/go-units"
)

const (
	searchListStart = "#include <...> search starts here:"
	searchListEnd   = "End of search list."
)

// ExtractIncludes runs the compiler driver on an empty C++ translation unit
// with -v and returns the builtin include directories it reports, in search
// order. Any failure, including the probe timing out, yields an empty list.
func ExtractIncludes(ctx context.Context, compilerPath string, opts ...Option) []string {
	o := newOptions(opts)

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := execCommandContext(ctx, compilerPath, "-E", "-x", "c++", "-", "-v")
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr
	// Children of the driver may keep stderr open after it is killed.
	cmd.WaitDelay = time.Second

	start := time.Now()
	err := cmd.Run()
	took := units.HumanDuration(time.Since(start))

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			o.logger.Printf("gcc: include probe of %s timed out after %s", compilerPath, took)
		} else {
			o.logger.Printf("gcc: include probe of %s failed after %s: %v", compilerPath, took, err)
		}
		return nil
	}

	dirs := ParseSearchList(&stderr)
	o.logger.Printf("gcc: include probe of %s found %d directories in %s", compilerPath, len(dirs), took)

	return dirs
}

// ParseSearchList extracts the directories between the "#include <...> search
// starts here:" and "End of search list." markers of a driver's -v output.
// Only lines starting with a slash are kept, and only their first field, which
// drops annotations like "(framework directory)". Without a start marker the
// result is empty.
func ParseSearchList(r io.Reader) []string {
	var dirs []string
	inList := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if !inList {
			inList = line == searchListStart
			continue
		}

		if line == searchListEnd {
			break
		}

		if !strings.HasPrefix(line, "/") {
			continue
		}

		dirs = append(dirs, strings.Fields(line)[0])
	}

	return dirs
}
