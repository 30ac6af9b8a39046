// Package archspill is the architecture shim: it deposits the current
// thread's callee-saved and general-purpose integer registers onto the
// current goroutine's stack, so the collector's conservative mark phase
// can scan them like any other memory range, and exposes the
// platform-independent StackGrowsDown predicate.
//
// SpillRegisters/ReleaseRegisters are backed by Go assembly, one file pair
// per supported GOARCH. A GOARCH with no such file pair fails to compile
// (Registers, spillRegisters and releaseRegisters are undefined), so a port
// to a new architecture can't silently skip register scanning.
package archspill

import "unsafe"

// SpillRegisters stores the current register file into buf and returns the
// address of buf itself: since buf lives in the caller's stack frame, its
// address is the lowest address at or above which the spilled values live,
// i.e. the top of the range a caller should scan to cover them.
//
// The caller must keep buf alive (and must not let it escape to the heap in
// a way that moves it) until scanning of the returned stack-top address
// range is complete.
func SpillRegisters(buf *Registers) unsafe.Pointer {
	spillRegisters(buf)
	return unsafe.Pointer(buf)
}

// ReleaseRegisters undoes any caller-visible side effect of SpillRegisters.
// On both architectures this package supports, the spill targets stack
// slots (the caller-supplied buf) that unwind naturally when the caller
// returns, so ReleaseRegisters is a no-op.
func ReleaseRegisters() {
	releaseRegisters()
}

// StackGrowsDown reports whether the stack this goroutine is running on
// grows toward lower addresses. It takes no arguments and does not compare
// caller-supplied addresses: it compares the addresses of two stack-local
// variables of its own across a call boundary, so the rest of the system
// never needs to assume a direction except through this predicate.
func StackGrowsDown() bool {
	var outer uintptr
	return stackGrowsDownProbe(&outer)
}

//go:noinline
func stackGrowsDownProbe(outer *uintptr) bool {
	var inner uintptr
	return uintptr(unsafe.Pointer(&inner)) < uintptr(unsafe.Pointer(outer))
}
