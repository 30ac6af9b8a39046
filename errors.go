// errors.go - sentinel errors for dgc's façade-level API misuse: plain
// values, compared with errors.Is, wrapped with fmt.Errorf("%w", ...) where
// extra context helps the caller.
package dgc

import "errors"

var (
	// ErrNotInitialized is returned by Term when called before a successful
	// Init; every other façade entry point panics with it instead (see
	// withGC in facade.go), since a host calling into an uninitialized
	// collector has a bug worth surfacing loudly rather than a recoverable
	// error path.
	ErrNotInitialized = errors.New("dgc: collector not initialized")

	// ErrAlreadyInitialized is returned by Init when called on an
	// already-initialized collector.
	ErrAlreadyInitialized = errors.New("dgc: collector already initialized")
)

// Misuse of the collector's own preconditions (enable-counter underflow, a
// non-live pointer passed to Free/Realloc, a non-positive Reserve size) is
// not modeled as a sentinel error: it is a
// programming bug in the caller, not a recoverable runtime condition, so
// internal/debugassert.Assert panics with a descriptive message instead of
// returning an error the caller could plausibly ignore.
