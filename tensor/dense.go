package tensor

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ToDense copies a 2D tensor into a gonum mat.Dense.
func (t *Tensor) ToDense() (*mat.Dense, error) {
	if t.NDim() != 2 {
		return nil, errors.Errorf("ToDense requires 2D tensor, got shape %v", t.shape)
	}
	r, c := t.shape[0], t.shape[1]
	if r == 0 || c == 0 {
		return nil, errors.Errorf("ToDense: gonum matrices cannot be empty, got shape %v", t.shape)
	}
	return mat.NewDense(r, c, t.ToFloat64Slice()), nil
}

// FromDense copies any gonum matrix into a new float64 tensor.
func FromDense(m mat.Matrix) (*Tensor, error) {
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data = append(data, m.At(i, j))
		}
	}
	return FromSlice(data, Shape{r, c})
}
