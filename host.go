package dgc

import "unsafe"

// MarkFunc is the callback a Host invokes once per conservative root range
// it discovers; the collector treats every aligned word in [from, to) as a
// potential pointer.
type MarkFunc func(from, to unsafe.Pointer)

// Host is the set of primitives the host runtime provides, consumed by the
// collector as black boxes: out-of-memory notification, finalization, and
// everything needed to discover and pause/resume mutator threads.
type Host interface {
	// OnOutOfMemory is called when the OS allocator cannot satisfy a
	// request. It is not expected to return; if it does, the caller
	// treats the allocation as having failed (returns nil/0).
	OnOutOfMemory()

	// Finalize runs the destructor for the object at payload. The
	// collector always passes deterministic=false; a host that also
	// offers deterministic destruction (e.g. via an explicit delete API)
	// is expected to call Finalize itself with deterministic=true and
	// never rely on the collector for that path.
	Finalize(payload unsafe.Pointer, deterministic bool)

	// ScanStaticData invokes mark once per static-data range the host
	// knows about.
	ScanStaticData(mark MarkFunc)

	// ThreadInit installs whatever thread-local bookkeeping the host's
	// thread library needs. Called once, from Init.
	ThreadInit()

	// ThreadSuspendAll pauses every mutator thread except the caller.
	ThreadSuspendAll()
	// ThreadResumeAll resumes every thread paused by ThreadSuspendAll.
	ThreadResumeAll()

	// ThreadScanAll invokes mark once per thread's stack range. The
	// caller's own thread is scanned down to stackTop (the value
	// returned by archspill.SpillRegisters during the current
	// collection), not to its current stack pointer. stackTop is the
	// address of the spilled-register buffer, so the scanned range
	// includes the spilled registers; the stack below stackTop is not
	// scanned.
	ThreadScanAll(mark MarkFunc, stackTop unsafe.Pointer)
}

// BlkInfo describes a live cell's externally visible attributes. A zero
// BlkInfo is returned for pointers that do not resolve to a live cell's
// payload base.
type BlkInfo struct {
	Base unsafe.Pointer
	Size uintptr
	Attr Attr
}
