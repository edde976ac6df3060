package ast

import (
	"encoding/json"
	"fmt"

	"fortio.org/safecast"
)

// Arena is a generic typed arena for allocating elements with 1-based indices.
type Arena[T any] struct {
	data []*T
}

// NewArena creates an *Arena[T] whose internal slice is allocated with a capacity of capHint.
func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{data: make([]*T, 0, capHint)}
}

// Allocate appends a value to the arena and returns its 1-based index.
func (a *Arena[T]) Allocate(value T) uint32 {
	elem := new(T)
	*elem = value
	a.data = append(a.data, elem)
	return a.Len()
}

// Get returns a pointer to the element at the given 1-based index, or nil if index is 0.
func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 {
		return nil
	}
	return a.data[index-1]
}

// Slice returns a copy of the arena contents. READONLY.
func (a *Arena[T]) Slice() []T {
	result := make([]T, len(a.data))
	for i, ptr := range a.data {
		result[i] = *ptr
	}
	return result
}

// Len returns the number of elements in the arena.
func (a *Arena[T]) Len() uint32 {
	result, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("ast arena len overflow: %w", err))
	}
	return result
}

// MarshalJSON encodes the arena as a plain JSON array in allocation order, so
// an *ast.File round-trips through disk as a fixture for tooling (`ember
// diag`'s standalone driver) that exercises the pipeline without a parser
// front-end wired in.
func (a *Arena[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Slice())
}

// UnmarshalJSON decodes a plain JSON array back into the arena, restoring
// 1-based index order from array position.
func (a *Arena[T]) UnmarshalJSON(data []byte) error {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	a.data = make([]*T, len(items))
	for i := range items {
		v := items[i]
		a.data[i] = &v
	}
	return nil
}
