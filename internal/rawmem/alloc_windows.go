//go:build windows

package rawmem

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// rawAlloc reserves and commits size bytes via VirtualAlloc. Like mmap,
// VirtualAlloc already returns memory aligned to the allocation
// granularity, so no alignment trampoline is needed here either.
func rawAlloc(size uintptr) unsafe.Pointer {
	addr, err := windows.VirtualAlloc(0, size, windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil
	}
	return unsafe.Pointer(addr)
}

// rawFree releases memory previously obtained from rawAlloc.
func rawFree(ptr unsafe.Pointer, _ uintptr) error {
	return windows.VirtualFree(uintptr(ptr), 0, windows.MEM_RELEASE)
}
