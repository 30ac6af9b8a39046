//go:build unix

package rawmem

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// rawAlloc requests an anonymous, private memory mapping from the kernel.
// mmap already returns page-aligned memory, so no alignment trampoline is
// needed on this path.
func rawAlloc(size uintptr) unsafe.Pointer {
	b, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil
	}
	return unsafe.Pointer(&b[0])
}

// rawFree unmaps a region previously obtained from rawAlloc.
func rawFree(ptr unsafe.Pointer, size uintptr) error {
	b := unsafe.Slice((*byte)(ptr), int(size))
	return unix.Munmap(b)
}
