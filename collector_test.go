package dgc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// scenarioHost is a minimal Host double: it never discovers roots of its
// own (ScanStaticData/ThreadScanAll find nothing), so every test drives
// reachability explicitly through AddRoot/AddRange.
type scenarioHost struct {
	oomCalled  bool
	finalized  []unsafe.Pointer
}

func (h *scenarioHost) OnOutOfMemory()                                  { h.oomCalled = true }
func (h *scenarioHost) Finalize(p unsafe.Pointer, _ bool)               { h.finalized = append(h.finalized, p) }
func (h *scenarioHost) ScanStaticData(mark MarkFunc)                    {}
func (h *scenarioHost) ThreadInit()                                     {}
func (h *scenarioHost) ThreadSuspendAll()                               {}
func (h *scenarioHost) ThreadResumeAll()                                {}
func (h *scenarioHost) ThreadScanAll(mark MarkFunc, stackTop unsafe.Pointer) {}

func newScenarioCollector() (*Collector, *scenarioHost) {
	h := &scenarioHost{}
	return NewCollector(h), h
}

// Scenario 1: reuse via sweep.
func TestScenarioReuseViaSweep(t *testing.T) {
	c, _ := newScenarioCollector()

	p := c.Malloc(100, 0)
	require.NotNil(t, p)
	_ = c.Malloc(100, 0)
	// p is now unreachable: no root references it.
	c.Collect()

	r := c.Malloc(100, 0)
	require.Equal(t, p, r)
}

// Scenario 2: reachability via a registered root pointer.
func TestScenarioReachabilityViaRoot(t *testing.T) {
	c, _ := newScenarioCollector()

	p := c.Malloc(64, 0)
	require.NotNil(t, p)
	c.AddRoot(p)

	c.Collect()

	require.Equal(t, uintptr(64), c.SizeOf(p))
}

// Scenario 3: reachability via a registered range.
func TestScenarioReachabilityViaRange(t *testing.T) {
	c, _ := newScenarioCollector()

	buf := c.Malloc(wordSize, 0)
	require.NotNil(t, buf)
	p := c.Malloc(32, 0)
	require.NotNil(t, p)
	*(*unsafe.Pointer)(buf) = p

	c.AddRange(buf, wordSize)
	c.Collect()

	require.Equal(t, uintptr(32), c.SizeOf(p))
}

// Scenario 4: finalizer invoked exactly once on sweep.
func TestScenarioFinalizerOnSweep(t *testing.T) {
	c, h := newScenarioCollector()

	p := c.Malloc(16, AttrFinalize)
	require.NotNil(t, p)

	c.Collect()

	require.Equal(t, []unsafe.Pointer{p}, h.finalized)
}

// Scenario 5: disable blocks implicit collection.
func TestScenarioDisableBlocksImplicitCollection(t *testing.T) {
	c, _ := newScenarioCollector()
	c.Disable()

	a := c.Malloc(64, 0)
	require.NotNil(t, a)
	// a becomes unreachable, but Disable suppresses allocation-triggered
	// collection, so the next Malloc must not reclaim it.
	before := c.Stats().Collections
	b := c.Malloc(64, 0)
	require.NotNil(t, b)
	require.NotEqual(t, a, b)
	require.Equal(t, before, c.Stats().Collections)
}

// Scenario 6: explicit Collect ignores disable.
func TestScenarioExplicitCollectIgnoresDisable(t *testing.T) {
	c, _ := newScenarioCollector()
	c.Disable()

	p := c.Malloc(32, 0)
	require.NotNil(t, p)

	c.Collect()
	c.Enable()

	q := c.Malloc(32, 0)
	require.Equal(t, p, q)
}

// Scenario 7: realloc grows out-of-place, preserving the written prefix.
func TestScenarioReallocGrowsOutOfPlace(t *testing.T) {
	c, _ := newScenarioCollector()

	p := c.Malloc(16, 0)
	require.NotNil(t, p)
	pattern := unsafe.Slice((*byte)(p), 16)
	for i := range pattern {
		pattern[i] = byte(i)
	}

	q := c.Realloc(p, 1024, 0)
	require.NotNil(t, q)

	grown := unsafe.Slice((*byte)(q), 16)
	require.Equal(t, pattern, grown)
	require.NotNil(t, c.free.findByPayload(uintptr(p)))
}

// Scenario 8: interior addr_of resolution.
func TestScenarioInteriorAddrOf(t *testing.T) {
	c, _ := newScenarioCollector()

	p := c.Malloc(100, 0)
	require.NotNil(t, p)

	require.Equal(t, p, c.AddrOf(unsafe.Pointer(uintptr(p)+50)))
	require.Nil(t, c.AddrOf(unsafe.Pointer(uintptr(p)+100)))
}

func TestMallocZeroReturnsNil(t *testing.T) {
	c, _ := newScenarioCollector()
	require.Nil(t, c.Malloc(0, 0))
	require.Nil(t, c.Calloc(0, 0))
	require.Equal(t, 0, c.Stats().LiveCells)
}

func TestSetAttrClearAttrRoundTrip(t *testing.T) {
	c, _ := newScenarioCollector()
	p := c.Malloc(8, 0)
	require.NotNil(t, p)

	before := c.GetAttr(p)
	c.SetAttr(p, AttrFinalize)
	after := c.ClearAttr(p, AttrFinalize)
	require.Equal(t, before, after)
}

func TestAddRootRemoveRootRoundTrip(t *testing.T) {
	c, _ := newScenarioCollector()
	p := c.Malloc(8, 0)
	require.NotNil(t, p)

	c.AddRoot(p)
	c.RemoveRoot(p)
	require.Equal(t, 0, c.roots.Len())
}

func TestStatsTracksFreeBytes(t *testing.T) {
	c, _ := newScenarioCollector()

	p := c.Malloc(100, 0)
	require.NotNil(t, p)
	require.Equal(t, uintptr(0), c.Stats().FreeBytes)

	c.Free(p)
	require.Equal(t, uintptr(100), c.Stats().FreeBytes)

	q := c.Malloc(100, 0)
	require.Equal(t, p, q)
	require.Equal(t, uintptr(0), c.Stats().FreeBytes)
}

func TestMinimizeReturnsFreeCellsToOS(t *testing.T) {
	c, _ := newScenarioCollector()

	p := c.Malloc(64, 0)
	require.NotNil(t, p)
	c.Free(p)
	require.Equal(t, 1, c.Stats().FreeCells)

	c.Minimize()
	require.Equal(t, 0, c.Stats().FreeCells)
	require.Equal(t, uintptr(0), c.Stats().FreeBytes)
}

func TestReserveAddsToFreeList(t *testing.T) {
	c, _ := newScenarioCollector()

	n := c.Reserve(256)
	require.Equal(t, uintptr(256), n)
	require.Equal(t, 1, c.Stats().FreeCells)

	p := c.Malloc(200, 0)
	require.NotNil(t, p)
	require.Equal(t, 0, c.Stats().FreeCells)
}

func TestCallocZeroesPayload(t *testing.T) {
	c, _ := newScenarioCollector()
	p := c.Malloc(32, 0)
	require.NotNil(t, p)
	b := unsafe.Slice((*byte)(p), 32)
	for i := range b {
		b[i] = 0xFF
	}
	c.Free(p)

	q := c.Calloc(32, 0)
	require.NotNil(t, q)
	zeros := unsafe.Slice((*byte)(q), 32)
	for _, b := range zeros {
		require.Zero(t, b)
	}
}
