// logging.go - structured logging for the collector.
//
// Logging is an infrastructure cross-cutting concern: every Collector
// instance in a process shares it, so configuration lives at package level
// rather than threaded through every entry point. The logger itself is
// github.com/joeycumines/logiface, with github.com/joeycumines/stumpy as
// the JSON event backend.
package dgc

import (
	"sync/atomic"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// stumpyEvent is a package-local alias so the rest of the file (and
// options.go) can spell out the logger's event type without importing
// stumpy everywhere.
type stumpyEvent = stumpy.Event

var globalLogger atomic.Pointer[logiface.Logger[*stumpyEvent]]

func init() {
	globalLogger.Store(stumpy.L.New(stumpy.L.WithStumpy()))
}

// SetLogger installs a package-level structured logger, replacing the
// default stumpy-backed one. Passing nil restores silence (log calls
// become no-ops) until the next SetLogger or process restart.
func SetLogger(l *logiface.Logger[*stumpyEvent]) {
	globalLogger.Store(l)
}

func currentLogger() *logiface.Logger[*stumpyEvent] {
	return globalLogger.Load()
}
