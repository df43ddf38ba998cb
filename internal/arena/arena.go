// Package arena provides append-only, densely indexed storage for IR nodes.
//
// An Arena is the sole owner of its values; everything else refers to them
// by dense uint32 index. Index 0 is reserved as the "no value" sentinel, so
// the first allocation returns 1.
package arena

type Arena[T any] struct {
	data []T
}

// New creates an *Arena[T] whose internal slice is allocated with a capacity
// of capHint. Zero is allowed.
func New[T any](capHint uint) *Arena[T] {
	return &Arena[T]{
		data: make([]T, 0, capHint),
	}
}

// Allocate appends value and returns its index (1-based).
func (a *Arena[T]) Allocate(value T) uint32 {
	a.data = append(a.data, value)
	return uint32(len(a.data))
}

// Get returns a pointer to the element at index, or nil for the 0 sentinel.
func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 {
		return nil
	}
	return &a.data[index-1]
}

// READONLY
func (a *Arena[T]) Slice() []T {
	return a.data
}

func (a *Arena[T]) Len() uint32 {
	return uint32(len(a.data))
}
