package dgc

import (
	"unsafe"

	"github.com/llucax/dgc-naive/internal/debugassert"
	"github.com/llucax/dgc-naive/internal/dynvec"
)

// rootRange is one registered address range [from, to) treated as a
// conservative root during marking.
type rootRange struct {
	from, to unsafe.Pointer
}

// Collector is the GC core: free/live lists, the root set, and the
// enable/disable counter. It is not itself safe for concurrent use — that
// is the façade's job (facade.go), via a single global mutex.
type Collector struct {
	host Host

	free cellList
	live cellList

	roots  dynvec.Vector[unsafe.Pointer]
	ranges dynvec.Vector[rootRange]

	enableCount int

	// Stats, maintained incrementally; see Collector.Stats.
	collections  uint64
	liveBytes    uintptr
	freeBytes    uintptr
	finalizerRun uint64
}

// Stats is a read-only heap snapshot, for host observability. Nothing in
// the collection algorithm reads it back.
type Stats struct {
	LiveCells     int
	FreeCells     int
	LiveBytes     uintptr
	FreeBytes     uintptr
	Collections   uint64
	FinalizersRun uint64
}

// NewCollector constructs a Collector bound to host. It performs no
// allocation itself, so construction can never fail with an out-of-memory
// condition.
func NewCollector(host Host) *Collector {
	c := &Collector{host: host}
	c.roots.OnOutOfMemory = host.OnOutOfMemory
	c.ranges.OnOutOfMemory = host.OnOutOfMemory
	host.ThreadInit()
	return c
}

// Term runs the finalizer for every still-live, finalizable cell, but does
// not reclaim memory — the OS reclaims it at process exit.
func (c *Collector) Term() {
	c.live.each(func(h *cellHeader) {
		if h.hasFinalizer() {
			c.host.Finalize(payloadOf(h), false)
		}
	})
}

// Enable permits allocation-triggered collection again. Must be paired
// with a prior Disable; underflowing the counter is caller error.
func (c *Collector) Enable() {
	debugassert.Assert(c.enableCount > 0, "dgc: Enable called without a matching Disable")
	c.enableCount--
}

// Disable suppresses allocation-triggered collection until a matching
// Enable. Explicit Collect calls still run while disabled.
func (c *Collector) Disable() {
	c.enableCount++
}

func (c *Collector) collectionsAllowed() bool {
	return c.enableCount == 0
}

// Malloc allocates size bytes with the given attributes, reusing a
// free-list cell with sufficient capacity when one is available, triggering
// a collection under allocation pressure when one is not, and otherwise
// requesting a fresh raw block from the OS. It returns nil if size is 0 or
// the OS is out of memory.
func (c *Collector) Malloc(size uintptr, attr Attr) unsafe.Pointer {
	if size == 0 {
		return nil
	}

	if h := c.free.popWithCapacity(size); h != nil {
		c.freeBytes -= h.capacity
		return c.finishMalloc(h, size, attr, false)
	}

	if c.collectionsAllowed() {
		c.Collect()
		if h := c.free.popWithCapacity(size); h != nil {
			c.freeBytes -= h.capacity
			return c.finishMalloc(h, size, attr, false)
		}
	}

	h := newCell(size)
	if h == nil {
		c.host.OnOutOfMemory()
		return nil
	}
	return c.finishMalloc(h, size, attr, true)
}

func (c *Collector) finishMalloc(h *cellHeader, size uintptr, attr Attr, fresh bool) unsafe.Pointer {
	h.size = size
	if fresh {
		// Only a newly obtained raw block gets its capacity initialized;
		// a reused cell keeps the capacity it already had.
		h.capacity = size
	}
	h.attr = attr
	h.marked = false
	c.live.link(h)
	c.liveBytes += h.capacity
	return payloadOf(h)
}

// Calloc is Malloc followed by zeroing the payload.
func (c *Collector) Calloc(size uintptr, attr Attr) unsafe.Pointer {
	p := c.Malloc(size, attr)
	if p == nil {
		return nil
	}
	b := unsafe.Slice((*byte)(p), size)
	for i := range b {
		b[i] = 0
	}
	return p
}

// Realloc resizes the live cell at ptr, growing in place when its capacity
// already covers the new size and moving (preserving the original content)
// otherwise.
func (c *Collector) Realloc(ptr unsafe.Pointer, size uintptr, attr Attr) unsafe.Pointer {
	if ptr == nil {
		return c.Malloc(size, attr)
	}
	if size == 0 {
		c.Free(ptr)
		return nil
	}

	h := c.live.findByPayload(uintptr(ptr))
	debugassert.Assert(h != nil, "dgc: Realloc on a non-live pointer")

	if h.capacity >= size {
		h.size = size
		return ptr
	}

	// The grow-out-of-place path below calls Malloc, which may itself
	// trigger an allocation-pressure Collect; ptr has no registered root
	// of its own, so without this it could be swept before the copy
	// below runs. Root it for the duration of the call.
	c.AddRoot(ptr)
	newPtr := c.Malloc(size, attr)
	dynvec.RemoveFirstEqual(&c.roots, ptr)
	if newPtr == nil {
		return nil
	}
	n := h.size
	if size < n {
		n = size
	}
	src := unsafe.Slice((*byte)(ptr), n)
	dst := unsafe.Slice((*byte)(newPtr), n)
	copy(dst, src)

	c.freeCell(h, true)
	return newPtr
}

// Extend reports that this engine cannot grow a block in place; it always
// returns 0.
func (c *Collector) Extend(_ unsafe.Pointer, min, max uintptr) uintptr {
	debugassert.Assert(min <= max, "dgc: Extend called with min > max")
	return 0
}

// Reserve obtains one raw block of size bytes and links it directly into
// the free list, returning the bytes reserved, or 0 on OS allocation
// failure.
func (c *Collector) Reserve(size uintptr) uintptr {
	debugassert.Assert(size > 0, "dgc: Reserve called with non-positive size")
	h := newCell(size)
	if h == nil {
		c.host.OnOutOfMemory()
		return 0
	}
	h.size = size
	h.capacity = size
	c.free.link(h)
	c.freeBytes += size
	return size
}

// Free moves a live cell to the free list without finalization; finalizers
// are the host's responsibility on this path.
func (c *Collector) Free(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	h := c.live.popByPayload(uintptr(ptr))
	debugassert.Assert(h != nil, "dgc: Free on a non-live pointer")
	c.freeCell(h, false)
}

// freeCell moves h from live to free. unlinkFromLive indicates whether h
// is still linked in the live list (false when the caller, e.g. Free via
// popByPayload, has already unlinked it).
func (c *Collector) freeCell(h *cellHeader, unlinkFromLive bool) {
	if unlinkFromLive {
		c.live.unlink(h)
	}
	c.liveBytes -= h.capacity
	h.marked = false
	c.free.link(h)
	c.freeBytes += h.capacity
}

// Minimize pops every cell from the free list and returns its raw block to
// the OS.
func (c *Collector) Minimize() {
	for h := c.free.pop(func(*cellHeader) bool { return true }); h != nil; h = c.free.pop(func(*cellHeader) bool { return true }) {
		c.freeBytes -= h.capacity
		h.free()
	}
}

// AddrOf resolves ptr to the payload base of the live cell whose payload
// range contains it, tolerating interior pointers. It returns nil if no
// live cell's payload range contains ptr.
func (c *Collector) AddrOf(ptr unsafe.Pointer) unsafe.Pointer {
	h := c.live.find(func(h *cellHeader) bool { return h.containsPayloadAddr(ptr) })
	if h == nil {
		return nil
	}
	return payloadOf(h)
}

// SizeOf returns the capacity of the live cell whose payload base is ptr,
// or 0 if ptr is not a payload base.
func (c *Collector) SizeOf(ptr unsafe.Pointer) uintptr {
	h := c.live.findByPayload(uintptr(ptr))
	if h == nil {
		return 0
	}
	return h.capacity
}

// Query returns {base, capacity, attr} for the live cell whose payload
// base is ptr, or a zeroed BlkInfo if ptr is not a payload base.
func (c *Collector) Query(ptr unsafe.Pointer) BlkInfo {
	h := c.live.findByPayload(uintptr(ptr))
	if h == nil {
		return BlkInfo{}
	}
	return BlkInfo{Base: payloadOf(h), Size: h.capacity, Attr: h.attr}
}

// GetAttr returns the attribute bitmap of the live cell whose payload base
// is ptr, or 0 if ptr is not a payload base.
func (c *Collector) GetAttr(ptr unsafe.Pointer) Attr {
	h := c.live.findByPayload(uintptr(ptr))
	if h == nil {
		return 0
	}
	return h.attr
}

// SetAttr ORs bits into the attribute bitmap of the live cell whose
// payload base is ptr, returning the bitmap after modification (not the
// value it held beforehand).
func (c *Collector) SetAttr(ptr unsafe.Pointer, bits Attr) Attr {
	h := c.live.findByPayload(uintptr(ptr))
	if h == nil {
		return 0
	}
	h.attr |= bits
	return h.attr
}

// ClearAttr AND-NOTs bits out of the attribute bitmap of the live cell
// whose payload base is ptr, returning the bitmap after modification.
func (c *Collector) ClearAttr(ptr unsafe.Pointer, bits Attr) Attr {
	h := c.live.findByPayload(uintptr(ptr))
	if h == nil {
		return 0
	}
	h.attr &^= bits
	return h.attr
}

// AddRoot registers a single-word root. Duplicates are permitted; each
// registration needs its own matching RemoveRoot.
func (c *Collector) AddRoot(ptr unsafe.Pointer) {
	c.roots.Append(ptr)
}

// RemoveRoot removes one occurrence of ptr from the root set.
func (c *Collector) RemoveRoot(ptr unsafe.Pointer) {
	dynvec.RemoveFirstEqual(&c.roots, ptr)
}

// AddRange registers the address range [ptr, ptr+size) as a root. No
// deduplication or overlap checking is performed, and zero-sized ranges
// are accepted without complaint.
func (c *Collector) AddRange(ptr unsafe.Pointer, size uintptr) {
	c.ranges.Append(rootRange{from: ptr, to: unsafe.Pointer(uintptr(ptr) + size)})
}

// RemoveRange removes the first registered range whose start equals ptr.
func (c *Collector) RemoveRange(ptr unsafe.Pointer) {
	c.ranges.RemoveFirst(func(r rootRange) bool { return r.from == ptr })
}

// Stats returns a snapshot of current heap occupancy.
func (c *Collector) Stats() Stats {
	var freeCells, liveCells int
	c.free.each(func(*cellHeader) { freeCells++ })
	c.live.each(func(*cellHeader) { liveCells++ })
	return Stats{
		LiveCells:     liveCells,
		FreeCells:     freeCells,
		LiveBytes:     c.liveBytes,
		FreeBytes:     c.freeBytes,
		Collections:   c.collections,
		FinalizersRun: c.finalizerRun,
	}
}
