// facade.go - the runtime façade: a global singleton Collector, guarded by
// one mutex, exposing the stable entry points a host runtime calls. This
// lock is independent of whatever thread-management mutex the host runtime
// itself uses: while one goroutine is inside a façade entry point, every
// other caller blocks, including during the suspended portion of a
// Collect.
package dgc

import (
	"sync"
	"unsafe"
)

var (
	facadeMu sync.Mutex
	facadeGC *Collector
)

// Init installs host as the collector's external-callback provider and
// prepares the global collector for use. It must be called before any
// other entry point, and must not be called again before a matching Term.
func Init(host Host, opts ...InitOption) error {
	facadeMu.Lock()
	defer facadeMu.Unlock()

	if facadeGC != nil {
		return ErrAlreadyInitialized
	}

	cfg := resolveInitOptions(opts)
	if cfg.logger != nil {
		SetLogger(cfg.logger)
	}

	facadeGC = NewCollector(host)
	currentLogger().Debug().Log("dgc: initialized")
	return nil
}

// Term runs outstanding finalizers and retires the global collector. It
// must be the last entry point called.
func Term() error {
	facadeMu.Lock()
	defer facadeMu.Unlock()

	gc, err := current()
	if err != nil {
		return err
	}
	gc.Term()
	facadeGC = nil
	currentLogger().Debug().Log("dgc: terminated")
	return nil
}

func current() (*Collector, error) {
	if facadeGC == nil {
		return nil, ErrNotInitialized
	}
	return facadeGC, nil
}

// Enable decrements the enable/disable counter.
func Enable() { withGC(func(c *Collector) { c.Enable() }) }

// Disable increments the enable/disable counter, suppressing
// allocation-triggered collection until a matching Enable.
func Disable() { withGC(func(c *Collector) { c.Disable() }) }

// Collect forces a full unmark/mark/sweep cycle, regardless of the
// enable/disable counter.
func Collect() { withGC(func(c *Collector) { c.Collect() }) }

// Minimize returns every free-list cell's raw block to the OS.
func Minimize() { withGC(func(c *Collector) { c.Minimize() }) }

// Malloc allocates size bytes with the given attributes, or returns nil if
// size is 0 or the OS is out of memory (see Host.OnOutOfMemory).
func Malloc(size uintptr, attr Attr) unsafe.Pointer {
	var p unsafe.Pointer
	withGC(func(c *Collector) { p = c.Malloc(size, attr) })
	return p
}

// Calloc is Malloc followed by zeroing the payload.
func Calloc(size uintptr, attr Attr) unsafe.Pointer {
	var p unsafe.Pointer
	withGC(func(c *Collector) { p = c.Calloc(size, attr) })
	return p
}

// Realloc resizes the live cell at ptr, possibly moving it.
func Realloc(ptr unsafe.Pointer, size uintptr, attr Attr) unsafe.Pointer {
	var p unsafe.Pointer
	withGC(func(c *Collector) { p = c.Realloc(ptr, size, attr) })
	return p
}

// Extend always returns 0: this engine cannot grow blocks in place.
func Extend(ptr unsafe.Pointer, min, max uintptr) uintptr {
	var n uintptr
	withGC(func(c *Collector) { n = c.Extend(ptr, min, max) })
	return n
}

// Reserve obtains size bytes from the OS and links them into the free
// list, returning the bytes reserved or 0 on OS failure.
func Reserve(size uintptr) uintptr {
	var n uintptr
	withGC(func(c *Collector) { n = c.Reserve(size) })
	return n
}

// Free moves the live cell at ptr to the free list without finalization.
func Free(ptr unsafe.Pointer) { withGC(func(c *Collector) { c.Free(ptr) }) }

// AddrOf resolves an interior or base pointer to its cell's payload base.
func AddrOf(ptr unsafe.Pointer) unsafe.Pointer {
	var p unsafe.Pointer
	withGC(func(c *Collector) { p = c.AddrOf(ptr) })
	return p
}

// SizeOf returns the capacity of the live cell at ptr, or 0.
func SizeOf(ptr unsafe.Pointer) uintptr {
	var n uintptr
	withGC(func(c *Collector) { n = c.SizeOf(ptr) })
	return n
}

// Query returns {base, capacity, attr} for the live cell at ptr, or a
// zeroed BlkInfo.
func Query(ptr unsafe.Pointer) BlkInfo {
	var info BlkInfo
	withGC(func(c *Collector) { info = c.Query(ptr) })
	return info
}

// GetAttr returns the attribute bitmap of the live cell at ptr, or 0.
func GetAttr(ptr unsafe.Pointer) Attr {
	var a Attr
	withGC(func(c *Collector) { a = c.GetAttr(ptr) })
	return a
}

// SetAttr ORs bits into the live cell's attribute bitmap at ptr, returning
// the bitmap after modification.
func SetAttr(ptr unsafe.Pointer, bits Attr) Attr {
	var a Attr
	withGC(func(c *Collector) { a = c.SetAttr(ptr, bits) })
	return a
}

// ClearAttr AND-NOTs bits out of the live cell's attribute bitmap at ptr,
// returning the bitmap after modification.
func ClearAttr(ptr unsafe.Pointer, bits Attr) Attr {
	var a Attr
	withGC(func(c *Collector) { a = c.ClearAttr(ptr, bits) })
	return a
}

// AddRoot registers ptr as a single-word conservative root.
func AddRoot(ptr unsafe.Pointer) { withGC(func(c *Collector) { c.AddRoot(ptr) }) }

// RemoveRoot removes one occurrence of ptr from the root set.
func RemoveRoot(ptr unsafe.Pointer) { withGC(func(c *Collector) { c.RemoveRoot(ptr) }) }

// AddRange registers [ptr, ptr+size) as a conservative root range.
func AddRange(ptr unsafe.Pointer, size uintptr) {
	withGC(func(c *Collector) { c.AddRange(ptr, size) })
}

// RemoveRange removes the first registered range whose start is ptr.
func RemoveRange(ptr unsafe.Pointer) { withGC(func(c *Collector) { c.RemoveRange(ptr) }) }

// Snapshot returns a snapshot of current heap occupancy.
func Snapshot() Stats {
	var s Stats
	withGC(func(c *Collector) { s = c.Stats() })
	return s
}

// withGC runs fn with the façade mutex held, after asserting the
// collector has been initialized. Every entry point but Init and Term
// requires Init to have already run; calling one before Init or after Term
// panics with ErrNotInitialized rather than silently no-oping, since a
// host calling entry points out of order has a bug worth surfacing loudly.
func withGC(fn func(c *Collector)) {
	facadeMu.Lock()
	defer facadeMu.Unlock()

	gc, err := current()
	if err != nil {
		panic(err)
	}
	fn(gc)
}
