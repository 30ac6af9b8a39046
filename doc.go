// Package dgc implements a conservative, stop-the-world, mark-and-sweep
// tracing garbage collector for a managed-language host runtime: untyped
// allocation with per-block attributes, safe reclamation of unreachable
// blocks, finalizer support, and user-registered roots.
//
// The design favors making the bookkeeping a garbage collector normally
// hides explicit and easy to follow over competing with a production
// collector on throughput.
//
// # Architecture
//
// The collector core ([Collector]) owns two intrusive linked lists of
// cell headers — live and free — plus a root set drawn from five
// sources: host static data, host-scanned thread stacks, the current
// thread's spilled registers (internal/archspill), explicitly registered
// single-word roots, and explicitly registered address ranges.
// [Collector.Malloc] drives collection on allocation pressure; [Collect]
// always runs unmark, mark, then sweep, invoking finalizers for
// reclaimed cells whose [AttrFinalize] bit is set.
//
// A [Host] supplies the six primitives the core treats as black boxes:
// OnOutOfMemory, Finalize, ScanStaticData, ThreadInit,
// ThreadSuspendAll/ThreadResumeAll, and ThreadScanAll.
//
// # Thread Safety
//
// The package-level entry points ([Init], [Malloc], [Collect], etc.) are
// a global singleton guarded by a single mutex: only one goroutine may be
// inside a façade entry point at a time, and a [Collect] call suspends
// every other mutator thread (via [Host.ThreadSuspendAll]) for the
// duration of its mark phase only — threads are resumed before sweep
// begins. [Collector] itself is not safe for concurrent use; build your
// own locking around it if you need a collector instance that isn't the
// package-level singleton.
//
// # Usage
//
//	if err := dgc.Init(myHost); err != nil {
//	    log.Fatal(err)
//	}
//	defer dgc.Term()
//
//	p := dgc.Malloc(64, dgc.AttrFinalize)
//	dgc.AddRoot(p)
//	// ... use p ...
//	dgc.RemoveRoot(p)
//	dgc.Collect()
//
// # Non-goals
//
// No generational, incremental, moving, or concurrent collection; no
// precise stack maps (scanning is always conservative); no
// interior-pointer reclamation beyond [AddrOf]; no mutator-parallel
// allocation.
package dgc
