package core

import "fmt"

// DType represents the data type of tensor elements.
type DType uint8

const (
	Float32 DType = iota
	Float64
	Int32
	Int64
	Uint8
	Bool
)

// Element is the set of Go types a tensor can hold.
type Element interface {
	float32 | float64 | int32 | int64 | uint8
}

// Size returns the byte size of one element.
func (d DType) Size() uintptr {
	switch d {
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	case Uint8, Bool:
		return 1
	default:
		panic(fmt.Sprintf("unknown dtype: %d", d))
	}
}

func (d DType) String() string {
	names := [...]string{"float32", "float64", "int32", "int64", "uint8", "bool"}
	if int(d) < len(names) {
		return names[d]
	}
	return fmt.Sprintf("dtype(%d)", d)
}

// IsFloat returns true for floating point types.
func (d DType) IsFloat() bool {
	return d == Float32 || d == Float64
}

// DTypeOf returns the DType matching the Go element type T.
func DTypeOf[T Element]() DType {
	var zero T
	switch any(zero).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int32:
		return Int32
	case int64:
		return Int64
	default:
		return Uint8
	}
}
