package tensor

import (
	"fmt"
	"unsafe"

	"github.com/djeday123/subperm/core"
)

// copySliceToStorage copies a Go slice into a storage buffer safely.
func copySliceToStorage[T any](data []T, dst []byte) {
	if len(data) == 0 || len(dst) == 0 {
		return
	}
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	srcLen := len(data) * elemSize
	if srcLen > len(dst) {
		srcLen = len(dst)
	}
	srcBytes := unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), srcLen)
	copy(dst, srcBytes)
}

// load reads the element of type T stored at byte offset off.
func load[T any](b []byte, off int) T {
	return *(*T)(unsafe.Pointer(&b[off]))
}

// byteOffset returns the storage offset of the element at indices,
// panicking if indices are out of range.
func (t *Tensor) byteOffset(indices []int) int {
	if err := core.CheckIndex(indices, t.shape); err != nil {
		panic(fmt.Sprintf("tensor: %v", err))
	}
	return t.offset + FlatIndex(indices, t.strides)
}

func (t *Tensor) float64At(off int) float64 {
	b := t.storage.Bytes()
	switch t.dtype {
	case Float32:
		return float64(load[float32](b, off))
	case Float64:
		return load[float64](b, off)
	case Int32:
		return float64(load[int32](b, off))
	case Int64:
		return float64(load[int64](b, off))
	default:
		return float64(load[uint8](b, off))
	}
}

func (t *Tensor) int64At(off int) int64 {
	b := t.storage.Bytes()
	switch t.dtype {
	case Float32:
		return int64(load[float32](b, off))
	case Float64:
		return int64(load[float64](b, off))
	case Int32:
		return int64(load[int32](b, off))
	case Int64:
		return load[int64](b, off)
	default:
		return int64(load[uint8](b, off))
	}
}

// At returns the element at the given multi-index as a float64.
// It panics if the index does not match the tensor shape.
func (t *Tensor) At(indices ...int) float64 {
	return t.float64At(t.byteOffset(indices))
}

// Int64At returns the element at the given multi-index as an int64.
// It panics if the index does not match the tensor shape.
func (t *Tensor) Int64At(indices ...int) int64 {
	return t.int64At(t.byteOffset(indices))
}

// Values returns a copy of the tensor elements in logical row-major order,
// converted to T. Strided views are read through their strides.
func Values[T Element](t *Tensor) []T {
	n := t.NumElements()
	out := make([]T, n)
	if n == 0 {
		return out
	}
	integral := !DTypeOf[T]().IsFloat()
	indices := make([]int, t.NDim())
	for i := range out {
		off := t.offset + FlatIndex(indices, t.strides)
		if integral {
			out[i] = T(t.int64At(off))
		} else {
			out[i] = T(t.float64At(off))
		}
		core.NextIndex(indices, t.shape)
	}
	return out
}

// ToFloat32Slice returns the tensor data as []float32.
func (t *Tensor) ToFloat32Slice() []float32 { return Values[float32](t) }

// ToFloat64Slice returns the tensor data as []float64.
func (t *Tensor) ToFloat64Slice() []float64 { return Values[float64](t) }

// ToInt32Slice returns the tensor data as []int32.
func (t *Tensor) ToInt32Slice() []int32 { return Values[int32](t) }

// ToInt64Slice returns the tensor data as []int64.
func (t *Tensor) ToInt64Slice() []int64 { return Values[int64](t) }
