package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// Shape represents the extents of a tensor, outermost axis first.
type Shape []int

// Strides represents byte offsets between consecutive elements along each axis.
type Strides []int

// NumElements returns the total number of elements in the shape.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // scalar
	}
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// NDim returns the number of axes.
func (s Shape) NDim() int {
	return len(s)
}

// Equal checks if two shapes are identical.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	c := make(Shape, len(s))
	copy(c, s)
	return c
}

// Validate reports an error if any extent is negative.
func (s Shape) Validate() error {
	for i, d := range s {
		if d < 0 {
			return errors.Errorf("axis %d has negative extent %d", i, d)
		}
	}
	return nil
}

func (s Shape) String() string {
	return fmt.Sprintf("%v", []int(s))
}

// ContiguousStrides computes row-major (C-order) strides for a given shape and element size.
func ContiguousStrides(shape Shape, elemSize uintptr) Strides {
	ndim := len(shape)
	if ndim == 0 {
		return Strides{}
	}
	strides := make(Strides, ndim)
	strides[ndim-1] = int(elemSize)
	for i := ndim - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * shape[i+1]
	}
	return strides
}

// IsContiguous checks if strides represent a contiguous row-major layout.
// Axes of extent 1 never move the offset, so their stride is ignored.
func IsContiguous(shape Shape, strides Strides, elemSize uintptr) bool {
	if len(shape) != len(strides) {
		return false
	}
	expected := ContiguousStrides(shape, elemSize)
	for i := range strides {
		if shape[i] == 1 {
			continue
		}
		if strides[i] != expected[i] {
			return false
		}
	}
	return true
}

// FlatIndex converts a multi-dimensional index to a flat byte offset.
func FlatIndex(indices []int, strides Strides) int {
	offset := 0
	for i, idx := range indices {
		offset += idx * strides[i]
	}
	return offset
}

// CheckIndex validates a multi-dimensional index against shape.
func CheckIndex(indices []int, shape Shape) error {
	if len(indices) != len(shape) {
		return errors.Errorf("index has %d axes, shape %v has %d", len(indices), shape, len(shape))
	}
	for i, idx := range indices {
		if idx < 0 || idx >= shape[i] {
			return errors.Errorf("index %d out of range [0, %d) on axis %d", idx, shape[i], i)
		}
	}
	return nil
}

// NextIndex advances indices through shape in row-major order, like an
// odometer: the last axis turns fastest. It returns false once every
// position has been visited and indices have wrapped back to zero.
func NextIndex(indices []int, shape Shape) bool {
	for d := len(shape) - 1; d >= 0; d-- {
		indices[d]++
		if indices[d] < shape[d] {
			return true
		}
		indices[d] = 0
	}
	return false
}

// Permute returns new shape and strides for a transposed view.
func Permute(shape Shape, strides Strides, axes []int) (Shape, Strides, error) {
	if len(axes) != len(shape) {
		return nil, nil, errors.Errorf("axes length %d != ndim %d", len(axes), len(shape))
	}

	seen := make([]bool, len(axes))
	for _, a := range axes {
		if a < 0 || a >= len(shape) {
			return nil, nil, errors.Errorf("axis %d out of range for %d dimensions", a, len(shape))
		}
		if seen[a] {
			return nil, nil, errors.Errorf("duplicate axis %d", a)
		}
		seen[a] = true
	}

	newShape := make(Shape, len(shape))
	newStrides := make(Strides, len(strides))
	for i, a := range axes {
		newShape[i] = shape[a]
		newStrides[i] = strides[a]
	}
	return newShape, newStrides, nil
}

// IsIdentity reports whether axes is exactly 0, 1, ..., len(axes)-1.
func IsIdentity(axes []int) bool {
	for i, a := range axes {
		if a != i {
			return false
		}
	}
	return true
}

// InvertAxes returns the permutation that undoes axes.
func InvertAxes(axes []int) []int {
	inv := make([]int, len(axes))
	for i, a := range axes {
		inv[a] = i
	}
	return inv
}
