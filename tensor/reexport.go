package tensor

import "github.com/djeday123/subperm/core"

// Re-export core types so tensor.Shape, tensor.DType etc. still work.
type Shape = core.Shape
type Strides = core.Strides
type DType = core.DType
type Element = core.Element

const (
	Float32 = core.Float32
	Float64 = core.Float64
	Int32   = core.Int32
	Int64   = core.Int64
	Uint8   = core.Uint8
	Bool    = core.Bool
)

var (
	ContiguousStrides = core.ContiguousStrides
	IsContiguous      = core.IsContiguous
	FlatIndex         = core.FlatIndex
	Permute           = core.Permute
)

// DTypeOf returns the DType matching the Go element type T.
func DTypeOf[T Element]() DType { return core.DTypeOf[T]() }
