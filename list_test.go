package dgc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestCell(t *testing.T, size uintptr) *cellHeader {
	t.Helper()
	h := newCell(size)
	require.NotNil(t, h)
	h.size = size
	h.capacity = size
	t.Cleanup(h.free)
	return h
}

func TestListLinkFindUnlink(t *testing.T) {
	var l cellList
	a := newTestCell(t, 8)
	b := newTestCell(t, 16)

	l.link(a)
	l.link(b)

	require.Same(t, b, l.find(func(h *cellHeader) bool { return h.size == 16 }))
	require.True(t, l.unlink(a))
	require.False(t, l.unlink(a), "unlinking twice must fail the second time")
	require.Nil(t, l.find(func(h *cellHeader) bool { return h.size == 8 }))
}

func TestListPopWithCapacity(t *testing.T) {
	var l cellList
	small := newTestCell(t, 8)
	big := newTestCell(t, 128)
	l.link(small)
	l.link(big)

	got := l.popWithCapacity(100)
	require.Same(t, big, got)
	require.Nil(t, l.popWithCapacity(100))
}

func TestListEachSafeAgainstUnlinkOfCurrent(t *testing.T) {
	var l cellList
	a := newTestCell(t, 8)
	b := newTestCell(t, 8)
	c := newTestCell(t, 8)
	l.link(a)
	l.link(b)
	l.link(c)

	var visited []*cellHeader
	var dst cellList
	l.each(func(h *cellHeader) {
		visited = append(visited, h)
		l.unlink(h)
		dst.link(h)
	})

	require.Len(t, visited, 3)
	require.Nil(t, l.head)
	require.NotNil(t, dst.find(func(h *cellHeader) bool { return h == a }))
	require.NotNil(t, dst.find(func(h *cellHeader) bool { return h == b }))
	require.NotNil(t, dst.find(func(h *cellHeader) bool { return h == c }))
}
