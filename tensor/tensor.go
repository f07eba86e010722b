package tensor

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/djeday123/subperm/backend"
	_ "github.com/djeday123/subperm/backend/cpu" // register CPU backend
)

var (
	// ErrNotContiguous is returned by View on a strided tensor.
	ErrNotContiguous = errors.New("tensor: view requires contiguous tensor")

	// ErrElementCount is returned when a new shape holds a different number of elements.
	ErrElementCount = errors.New("tensor: element count mismatch")
)

// Tensor is a strided n-dimensional array. Shape and strides are row-major
// by default; Transpose produces views with permuted strides that share
// storage with their source.
type Tensor struct {
	storage backend.Storage
	shape   Shape
	strides Strides
	dtype   DType
	offset  int // byte offset into storage (for views)
}

// ---- Constructors ----

// NewTensor creates a tensor with given storage and metadata.
func NewTensor(storage backend.Storage, shape Shape, dtype DType) *Tensor {
	return &Tensor{
		storage: storage,
		shape:   shape.Clone(),
		strides: ContiguousStrides(shape, dtype.Size()),
		dtype:   dtype,
	}
}

// FromSlice creates a CPU tensor holding a copy of data.
func FromSlice[T Element](data []T, shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	n := shape.NumElements()
	if len(data) != n {
		return nil, errors.Wrapf(ErrElementCount, "data length %d != shape %v elements %d", len(data), shape, n)
	}

	dtype := DTypeOf[T]()
	store, err := alloc(n, dtype)
	if err != nil {
		return nil, err
	}
	copySliceToStorage(data, store.Bytes())
	return NewTensor(store, shape, dtype), nil
}

// Zeros creates a zero-filled tensor.
func Zeros(shape Shape, dtype DType) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	store, err := alloc(shape.NumElements(), dtype)
	if err != nil {
		return nil, err
	}
	return NewTensor(store, shape, dtype), nil
}

// Arange creates a 1D tensor with values [start, start+step, start+2*step, ...].
func Arange(start, step float64, n int, dtype DType) (*Tensor, error) {
	b, err := backend.Get(backend.CPU)
	if err != nil {
		return nil, err
	}
	store, err := alloc(n, dtype)
	if err != nil {
		return nil, err
	}
	if err := b.Arange(store, start, step, n, dtype); err != nil {
		store.Free()
		return nil, err
	}
	return NewTensor(store, Shape{n}, dtype), nil
}

func alloc(n int, dtype DType) (backend.Storage, error) {
	b, err := backend.Get(backend.CPU)
	if err != nil {
		return nil, err
	}
	return b.Alloc(n * int(dtype.Size()))
}

// ---- Accessors ----

func (t *Tensor) Shape() Shape             { return t.shape }
func (t *Tensor) Strides() Strides         { return t.strides }
func (t *Tensor) DType() DType             { return t.dtype }
func (t *Tensor) NDim() int                { return len(t.shape) }
func (t *Tensor) NumElements() int         { return t.shape.NumElements() }
func (t *Tensor) Device() backend.Device   { return t.storage.Device() }
func (t *Tensor) Storage() backend.Storage { return t.storage }
func (t *Tensor) Offset() int              { return t.offset }

func (t *Tensor) IsContiguous() bool {
	return IsContiguous(t.shape, t.strides, t.dtype.Size())
}

// ---- Views ----

// View returns a tensor with a new shape but shared storage.
func (t *Tensor) View(newShape Shape) (*Tensor, error) {
	if !t.IsContiguous() {
		return nil, ErrNotContiguous
	}
	if err := newShape.Validate(); err != nil {
		return nil, err
	}
	if newShape.NumElements() != t.NumElements() {
		return nil, errors.Wrapf(ErrElementCount, "view shape %v has %d elements, need %d",
			newShape, newShape.NumElements(), t.NumElements())
	}
	return &Tensor{
		storage: t.storage,
		shape:   newShape.Clone(),
		strides: ContiguousStrides(newShape, t.dtype.Size()),
		dtype:   t.dtype,
		offset:  t.offset,
	}, nil
}

// Reshape returns the tensor with a new shape, reading elements in
// row-major order. Contiguous tensors are reshaped as views; strided ones
// are first copied into a fresh contiguous buffer.
func (t *Tensor) Reshape(newShape Shape) (*Tensor, error) {
	src, err := t.Contiguous()
	if err != nil {
		return nil, err
	}
	return src.View(newShape)
}

// Transpose returns a view with permuted axes.
func (t *Tensor) Transpose(axes []int) (*Tensor, error) {
	newShape, newStrides, err := Permute(t.shape, t.strides, axes)
	if err != nil {
		return nil, errors.Wrapf(err, "transpose %v by %v", t.shape, axes)
	}
	return &Tensor{
		storage: t.storage,
		shape:   newShape,
		strides: newStrides,
		dtype:   t.dtype,
		offset:  t.offset,
	}, nil
}

// T transposes a 2D tensor (shorthand for Transpose([]int{1, 0})).
func (t *Tensor) T() (*Tensor, error) {
	if t.NDim() != 2 {
		return nil, errors.Errorf("T() requires 2D tensor, got %dD", t.NDim())
	}
	return t.Transpose([]int{1, 0})
}

// Contiguous returns t itself when already row-major, otherwise a copy.
func (t *Tensor) Contiguous() (*Tensor, error) {
	if t.IsContiguous() {
		return t, nil
	}
	return t.Clone()
}

// Clone copies the logical contents of t into a new contiguous tensor.
func (t *Tensor) Clone() (*Tensor, error) {
	b, err := backend.GetForDevice(t.Device())
	if err != nil {
		return nil, err
	}
	store, err := b.Alloc(t.NumElements() * int(t.dtype.Size()))
	if err != nil {
		return nil, err
	}
	if err := b.Gather(store, t.storage, t.shape, t.strides, t.offset, t.dtype); err != nil {
		store.Free()
		return nil, errors.Wrap(err, "clone")
	}
	return NewTensor(store, t.shape, t.dtype), nil
}

// Free releases the underlying storage.
func (t *Tensor) Free() {
	if t.storage != nil {
		t.storage.Free()
		t.storage = nil
	}
}

func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor(shape=%v, dtype=%s, device=%s, contiguous=%v)",
		t.shape, t.dtype, t.Device(), t.IsContiguous())
}
