// Package debugassert centralizes precondition checks that would otherwise
// be scattered ad hoc across the collector.
//
// This module has a single build mode, so Assert always panics on
// violation rather than silently compiling the check away in a release
// build: a panic is a reasonable stand-in for undefined behavior that a
// caller can at least observe.
package debugassert

import "fmt"

// Assert panics with a formatted message if cond is false.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
