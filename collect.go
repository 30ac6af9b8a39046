package dgc

import (
	"time"
	"unsafe"

	"github.com/llucax/dgc-naive/internal/archspill"
)

// Collect runs a full unmark/mark/sweep cycle. Unlike allocation-triggered
// collection, it always runs regardless of the enable/disable counter.
func (c *Collector) Collect() {
	start := time.Now()

	c.unmark()
	c.mark()
	freed, finalized := c.sweep()

	c.collections++
	c.finalizerRun += uint64(finalized)

	currentLogger().Info().
		Int("live", c.countLive()).
		Int("freed", freed).
		Int("finalized", finalized).
		Dur("duration", time.Since(start)).
		Log("dgc: collection complete")
}

func (c *Collector) countLive() int {
	n := 0
	c.live.each(func(*cellHeader) { n++ })
	return n
}

// unmark clears the reachability flag on every live cell, so mark can
// recompute it from scratch.
func (c *Collector) unmark() {
	c.live.each(func(h *cellHeader) { h.marked = false })
}

// mark performs the mark phase: spill registers, suspend mutator threads,
// scan every root source, resume threads, and release the spilled
// registers. No live cell's marked field may be set to anything but true
// while this runs, and no list structure mutates.
func (c *Collector) mark() {
	var regs archspill.Registers
	stackTop := archspill.SpillRegisters(&regs)
	defer archspill.ReleaseRegisters()

	c.host.ThreadSuspendAll()
	// A scoped-guard discipline: thread resume must run on every exit
	// path out of the suspended window, including a panicking mark
	// callback from a misbehaving host.
	defer c.host.ThreadResumeAll()

	c.host.ScanStaticData(c.markRange)
	c.host.ThreadScanAll(c.markRange, stackTop)

	// The spilled registers themselves are one more conservative root
	// range, covering [stackTop, stackTop+len(regs)*wordSize).
	regsEnd := unsafe.Pointer(uintptr(stackTop) + uintptr(len(regs))*wordSize)
	c.markRange(stackTop, regsEnd)

	c.roots.Each(func(p unsafe.Pointer) { c.markAddr(uintptr(p)) })
	c.ranges.Each(func(r rootRange) { c.markRange(r.from, r.to) })
}

// markRange conservatively scans [from, to) and marks every word that
// resolves to a live cell.
func (c *Collector) markRange(from, to unsafe.Pointer) {
	scanRange(from, to, c.markAddr)
}

// markAddr resolves addr the same way AddrOf does (tolerating interior
// pointers), and if it names an as-yet-unmarked live cell, marks it and,
// unless the cell is NO_SCAN, recurses into every word of its payload.
//
// This is plain recursion, bounded only by heap reachability depth, rather
// than an explicit mark stack; see DESIGN.md for the tradeoff this makes
// against a production collector's bounded-stack alternative.
func (c *Collector) markAddr(addr uintptr) {
	p := unsafe.Pointer(addr)
	h := c.live.find(func(h *cellHeader) bool { return h.containsPayloadAddr(p) })
	if h == nil {
		return
	}
	if h.marked {
		return
	}
	h.marked = true
	if h.hasPointers() {
		h.forEachWord(c.markAddr)
	}
}

// sweep reclaims every still-unmarked live cell, invoking finalizers for
// those with AttrFinalize set before moving them to the free list. It
// returns the number of cells freed and the number of finalizers invoked.
func (c *Collector) sweep() (freed, finalized int) {
	var unmarked []*cellHeader
	c.live.each(func(h *cellHeader) {
		if !h.marked {
			unmarked = append(unmarked, h)
		}
	})

	for _, h := range unmarked {
		c.live.unlink(h)
		if h.hasFinalizer() {
			c.host.Finalize(payloadOf(h), false)
			finalized++
		}
		c.liveBytes -= h.capacity
		c.free.link(h)
		c.freeBytes += h.capacity
		freed++
	}
	return freed, finalized
}
