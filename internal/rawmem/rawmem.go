// Package rawmem is the OS allocator: it requests and releases
// page-aligned raw memory from the operating system, bypassing Go's own
// allocator entirely. The collector's cells, and the self-hosted vector in
// internal/dynvec, are both built directly on top of this package so that
// neither depends on Go's garbage collector for the memory it manages.
//
// Alloc returns nil on OS failure; it never panics on allocation failure,
// so callers are always free to fall back to their own out-of-memory
// handling.
package rawmem

import "unsafe"

// PageSize is the allocation granularity used when no platform-native
// aligned-allocation primitive is available (see alloc_fallback.go).
const PageSize = 4096

// Alloc requests size bytes of page-aligned, zeroed memory from the OS.
// It returns nil if the OS allocation fails.
func Alloc(size uintptr) unsafe.Pointer {
	if size == 0 {
		return nil
	}
	return rawAlloc(size)
}

// Free releases memory previously returned by Alloc. size must be the same
// value passed to the corresponding Alloc call.
func Free(ptr unsafe.Pointer, size uintptr) error {
	if ptr == nil {
		return nil
	}
	return rawFree(ptr, size)
}
