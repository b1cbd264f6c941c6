// Package stacktrace trims goroutine dumps down to the application frames.
package stacktrace

import "strings"

// InternalPaths returns the "internal/<pkg>/<file>.go:<line>" locations of a
// raw stack trace, as produced by runtime/debug.Stack, in call order.
func InternalPaths(stack []byte) []string {
	var paths []string

	for line := range strings.SplitSeq(string(stack), "\n") {
		// file lines are tab-indented: "\t/abs/path/file.go:42 +0x1d"
		if !strings.HasPrefix(line, "\t") {
			continue
		}

		loc, _, _ := strings.Cut(strings.TrimSpace(line), " ")
		_, rel, found := strings.Cut(loc, "/internal/")
		if !found || !strings.Contains(rel, ".go:") {
			continue
		}

		paths = append(paths, "internal/"+rel)
	}

	return paths
}
