//go:build !unix && !windows

package rawmem

import (
	"sync"
	"unsafe"
)

var (
	pinMu  sync.Mutex
	pinned = map[uintptr][]byte{}
)

// rawAlloc is the fallback path for platforms with no page-aligned OS
// allocation primitive available through golang.org/x/sys: it over-allocates
// by one page using the generic heap, aligns the returned pointer up to a
// page boundary, and stashes the original (unaligned) base pointer in the
// word immediately following the requested size. rawFree does not read that
// word: it releases a region by dropping its pin-map entry.
//
// The backing array is pinned for the lifetime of the process by the
// pin map below: rawmem hands out unsafe.Pointers with no Go pointer
// keeping the backing storage reachable, so without pinning the runtime
// would be free to collect it out from under the caller.
func rawAlloc(size uintptr) unsafe.Pointer {
	raw := make([]byte, size+PageSize)
	base := unsafe.Pointer(&raw[0])
	aligned := alignUp(uintptr(base), PageSize)

	pinMu.Lock()
	pinned[aligned] = raw
	pinMu.Unlock()

	// Stash the original base immediately after the requested size. The
	// word fits in the extra page: base is word-aligned, so aligned is at
	// most one word short of PageSize bytes past it.
	*(*uintptr)(unsafe.Pointer(aligned + size)) = uintptr(base)

	return unsafe.Pointer(aligned)
}

// rawFree releases a region obtained from rawAlloc.
func rawFree(ptr unsafe.Pointer, _ uintptr) error {
	pinMu.Lock()
	delete(pinned, uintptr(ptr))
	pinMu.Unlock()
	return nil
}

func alignUp(p, align uintptr) uintptr {
	return (p + align - 1) &^ (align - 1)
}
