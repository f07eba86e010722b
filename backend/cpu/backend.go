package cpu

import (
	"unsafe"

	"github.com/pkg/errors"

	"github.com/djeday123/subperm/backend"
	"github.com/djeday123/subperm/core"
)

// Backend implements backend.Backend for CPU.
type Backend struct{}

func init() {
	backend.Register(&Backend{})
}

func (b *Backend) Name() string                   { return "cpu" }
func (b *Backend) DeviceType() backend.DeviceType { return backend.CPU }

// ---- Memory ----

func (b *Backend) Alloc(byteLen int) (backend.Storage, error) {
	if byteLen < 0 {
		return nil, errors.Errorf("alloc: negative size %d", byteLen)
	}
	return newStorage(byteLen), nil
}

func (b *Backend) Free(s backend.Storage) {
	s.Free()
}

func (b *Backend) Copy(dst, src backend.Storage, byteLen int) error {
	if byteLen > dst.ByteLen() || byteLen > src.ByteLen() {
		return errors.Errorf("copy: %d bytes exceeds buffers (dst %d, src %d)",
			byteLen, dst.ByteLen(), src.ByteLen())
	}
	copy(dst.Bytes()[:byteLen], src.Bytes()[:byteLen])
	return nil
}

// ---- Layout ----

func (b *Backend) Gather(dst, src backend.Storage, shape core.Shape, strides core.Strides, offset int, dtype core.DType) error {
	if len(shape) != len(strides) {
		return errors.Errorf("gather: shape %v and strides %v differ in rank", shape, strides)
	}
	n := shape.NumElements()
	elem := int(dtype.Size())
	if dst.ByteLen() < n*elem {
		return errors.Errorf("gather: dst holds %d bytes, need %d", dst.ByteLen(), n*elem)
	}
	if n == 0 {
		return nil
	}

	out := dst.Bytes()
	in := src.Bytes()
	indices := make([]int, len(shape))
	for i := 0; i < n; i++ {
		at := offset + core.FlatIndex(indices, strides)
		if at < 0 || at+elem > len(in) {
			return errors.Errorf("gather: element %v at byte %d outside source of %d bytes", indices, at, len(in))
		}
		copy(out[i*elem:(i+1)*elem], in[at:at+elem])
		core.NextIndex(indices, shape)
	}
	return nil
}

// ---- Fill ops ----

func (b *Backend) Fill(dst backend.Storage, shape core.Shape, value float64, dtype core.DType) error {
	n := shape.NumElements()
	switch dtype {
	case core.Float32:
		fill(typed[float32](dst, n), func(int) float32 { return float32(value) })
	case core.Float64:
		fill(typed[float64](dst, n), func(int) float64 { return value })
	case core.Int32:
		fill(typed[int32](dst, n), func(int) int32 { return int32(value) })
	case core.Int64:
		fill(typed[int64](dst, n), func(int) int64 { return int64(value) })
	case core.Uint8, core.Bool:
		fill(typed[uint8](dst, n), func(int) uint8 { return uint8(value) })
	default:
		return errors.Errorf("fill: unsupported dtype %s", dtype)
	}
	return nil
}

func (b *Backend) Arange(dst backend.Storage, start, step float64, n int, dtype core.DType) error {
	at := func(i int) float64 { return start + float64(i)*step }
	switch dtype {
	case core.Float32:
		fill(typed[float32](dst, n), func(i int) float32 { return float32(at(i)) })
	case core.Float64:
		fill(typed[float64](dst, n), at)
	case core.Int32:
		fill(typed[int32](dst, n), func(i int) int32 { return int32(at(i)) })
	case core.Int64:
		fill(typed[int64](dst, n), func(i int) int64 { return int64(at(i)) })
	default:
		return errors.Errorf("arange: unsupported dtype %s", dtype)
	}
	return nil
}

// ---- Helpers ----

// typed interprets the first n elements of a storage as []T.
func typed[T any](s backend.Storage, n int) []T {
	b := s.Bytes()
	var zero T
	if limit := len(b) / int(unsafe.Sizeof(zero)); n > limit {
		n = limit
	}
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n)
}

func fill[T any](data []T, fn func(int) T) {
	for i := range data {
		data[i] = fn(i)
	}
}
