// Package dynvec provides a self-hosted growable vector: root registration
// cannot depend on the collector it helps implement, so this container
// allocates directly through internal/rawmem instead of through Go's own
// allocator.
package dynvec

import (
	"unsafe"

	"github.com/llucax/dgc-naive/internal/rawmem"
)

// minBump is the minimum number of elements a full Append grows by.
const minBump = 4

// Vector is a growable sequence of T, backed by raw OS memory. The zero
// value is an empty vector ready to use.
type Vector[T any] struct {
	data unsafe.Pointer
	len  int
	cap  int

	// OnOutOfMemory is invoked, instead of a Go panic, when a growth
	// allocation fails. It is expected not to return; if it does, Append
	// silently drops the append.
	OnOutOfMemory func()
}

// Len returns the number of elements currently stored.
func (v *Vector[T]) Len() int { return v.len }

func (v *Vector[T]) slice() []T {
	if v.data == nil {
		return nil
	}
	return unsafe.Slice((*T)(v.data), v.cap)
}

// At returns the element at index i.
func (v *Vector[T]) At(i int) T {
	return v.slice()[i]
}

// Append adds x to the end of the vector, growing the backing store if
// full. Growth doubles the capacity, with a minimum bump of four elements.
func (v *Vector[T]) Append(x T) {
	if v.len == v.cap {
		v.grow()
		if v.len == v.cap {
			// grow failed (OOM); OnOutOfMemory did not terminate the
			// process, so there is nothing safe left to do but drop x.
			return
		}
	}
	v.slice()[v.len] = x
	v.len++
}

func (v *Vector[T]) grow() {
	var zero T
	elemSize := unsafe.Sizeof(zero)

	newCap := v.cap * 2
	if newCap-v.cap < minBump {
		newCap = v.cap + minBump
	}

	newData := rawmem.Alloc(uintptr(newCap) * elemSize)
	if newData == nil {
		if v.OnOutOfMemory != nil {
			v.OnOutOfMemory()
		}
		return
	}

	if v.data != nil {
		copy(unsafe.Slice((*T)(newData), newCap), v.slice()[:v.len])
		rawmem.Free(v.data, uintptr(v.cap)*elemSize)
	}

	v.data = newData
	v.cap = newCap
}

// RemoveFirst removes the first element matching pred, shifting the tail
// down by one. Reports whether an element was removed.
func (v *Vector[T]) RemoveFirst(pred func(T) bool) bool {
	s := v.slice()
	for i := 0; i < v.len; i++ {
		if pred(s[i]) {
			copy(s[i:v.len-1], s[i+1:v.len])
			v.len--
			return true
		}
	}
	return false
}

// RemoveFirstEqual removes the first element equal to x. It is a
// specialization of RemoveFirst for comparable element types.
func RemoveFirstEqual[T comparable](v *Vector[T], x T) bool {
	return v.RemoveFirst(func(e T) bool { return e == x })
}

// Clear shrinks the vector back to zero length and releases its backing
// store.
func (v *Vector[T]) Clear() {
	if v.data != nil {
		var zero T
		rawmem.Free(v.data, uintptr(v.cap)*unsafe.Sizeof(zero))
	}
	v.data = nil
	v.len = 0
	v.cap = 0
}

// Each calls fn for every element currently stored, in index order.
func (v *Vector[T]) Each(fn func(T)) {
	s := v.slice()
	for i := 0; i < v.len; i++ {
		fn(s[i])
	}
}
