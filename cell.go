package dgc

import (
	"unsafe"

	"github.com/llucax/dgc-naive/internal/rawmem"
)

// Attr is the per-cell attribute bitmap. Bits 3-15 are reserved for the
// host language runtime; bits 16-31 are reserved for the collector itself.
// Unknown bits round-trip through GetAttr/SetAttr/ClearAttr unaltered.
type Attr uint32

const (
	// AttrFinalize marks a cell whose finalizer must run when it is
	// reclaimed by sweep.
	AttrFinalize Attr = 1 << 0
	// AttrNoScan marks a cell whose payload contains no traceable
	// pointers; the mark phase skips scanning it.
	AttrNoScan Attr = 1 << 1
	// AttrNoMove is reserved and unused: no block this collector manages
	// ever moves. The bit is kept reserved so a future moving collector
	// stays ABI-compatible with callers that already set or test it.
	AttrNoMove Attr = 1 << 2
)

const wordSize = unsafe.Sizeof(uintptr(0))

// cellHeader is the metadata prepended to every heap allocation.
type cellHeader struct {
	size       uintptr
	capacity   uintptr
	marked     bool
	attr       Attr
	next       *cellHeader
	blockStart unsafe.Pointer
}

// headerSize is the header footprint rounded up to a word boundary, so the
// payload that follows is always word-aligned regardless of the natural
// size of cellHeader.
var headerSize = alignUp(unsafe.Sizeof(cellHeader{}), wordSize)

func alignUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}

// newCell raw-allocates a fresh block sized to hold a header plus a
// payload of at least payloadSize bytes, and returns the initialized
// header with blockStart recorded. It returns nil if the underlying OS
// allocation fails.
func newCell(payloadSize uintptr) *cellHeader {
	total := headerSize + payloadSize
	block := rawmem.Alloc(total)
	if block == nil {
		return nil
	}
	h := (*cellHeader)(block)
	*h = cellHeader{blockStart: block}
	return h
}

// rawBlockSize is the number of bytes that must be passed back to
// rawmem.Free to release the cell's underlying block; it is derived from
// capacity rather than stored separately, since capacity is fixed at
// allocation and never shrinks.
func (h *cellHeader) rawBlockSize() uintptr {
	return headerSize + h.capacity
}

func (h *cellHeader) free() {
	rawmem.Free(h.blockStart, h.rawBlockSize())
}

// payloadOf returns the user-visible address for a cell header.
func payloadOf(h *cellHeader) unsafe.Pointer {
	return unsafe.Pointer(uintptr(unsafe.Pointer(h)) + headerSize)
}

// headerFromPayload is the inverse of payloadOf.
func headerFromPayload(p unsafe.Pointer) *cellHeader {
	return (*cellHeader)(unsafe.Pointer(uintptr(p) - headerSize))
}

func (h *cellHeader) hasFinalizer() bool { return h.attr&AttrFinalize != 0 }
func (h *cellHeader) hasPointers() bool  { return h.attr&AttrNoScan == 0 }

// containsPayloadAddr reports whether p falls within this cell's payload
// range [payload, payload+size), the sole interior-pointer test the
// collector supports.
func (h *cellHeader) containsPayloadAddr(p unsafe.Pointer) bool {
	start := uintptr(payloadOf(h))
	return uintptr(p) >= start && uintptr(p) < start+h.size
}

// forEachWord conservatively iterates the cell's payload word by word, up
// to the last complete word of h.size (not h.capacity — the requested
// size, not the block's full capacity, bounds the scan). Any sub-word
// tail is ignored.
func (h *cellHeader) forEachWord(fn func(uintptr)) {
	p := payloadOf(h)
	n := h.size / wordSize
	for i := uintptr(0); i < n; i++ {
		fn(*(*uintptr)(unsafe.Pointer(uintptr(p) + i*wordSize)))
	}
}

// scanRange conservatively iterates [from, to) word by word, aligned,
// truncating any trailing sub-word tail.
func scanRange(from, to unsafe.Pointer, fn func(uintptr)) {
	start := alignUp(uintptr(from), wordSize)
	end := uintptr(to)
	for addr := start; addr+wordSize <= end; addr += wordSize {
		fn(*(*uintptr)(unsafe.Pointer(addr)))
	}
}
