// Package indexmat builds tensors whose elements spell out their own
// multi-index, for checking reshapes and permutations by eye.
package indexmat

import (
	"strconv"

	"github.com/djeday123/subperm/core"
	"github.com/djeday123/subperm/dims"
	"github.com/djeday123/subperm/tensor"
)

// MaxSize is the largest extent whose 1-based indices fit in one digit.
const MaxSize = 9

// New returns an int64 tensor of the given shape where the element at
// 0-based index [i0, i1, ..., in-1] is the decimal number with digits
// (i0+1)(i1+1)...(in-1+1). For shape 2x3x4, [0,0,0] is 111 and
// [1,2,3] is 234.
func New(sizes ...int) (*tensor.Tensor, error) {
	shape := tensor.Shape(sizes)
	for i, s := range shape {
		if s <= 0 || s > MaxSize {
			return nil, &dims.InvalidDimensionError{Name: axisName(i), Size: s}
		}
	}

	weights := make([]int64, len(shape))
	w := int64(1)
	for i := len(shape) - 1; i >= 0; i-- {
		weights[i] = w
		w *= 10
	}

	data := make([]int64, 0, shape.NumElements())
	indices := make([]int, len(shape))
	for {
		var v int64
		for i, idx := range indices {
			v += int64(idx+1) * weights[i]
		}
		data = append(data, v)
		if !core.NextIndex(indices, shape) {
			break
		}
	}
	return tensor.FromSlice(data, shape)
}

func axisName(i int) string {
	return "axis" + strconv.Itoa(i)
}
