package permute

import (
	"github.com/pkg/errors"

	"github.com/djeday123/subperm/core"
	"github.com/djeday123/subperm/dims"
	"github.com/djeday123/subperm/tensor"
)

// Plan is the array-independent part of a permute: both specs parsed,
// checked against each other, and the axis permutation computed. A Plan
// is immutable and can be applied to any number of arrays.
type Plan struct {
	in, out dims.Spec
	src     *dims.Layout
	dst     *dims.Layout
	perm    []int
}

// NewPlan parses in and out and computes the permutation taking the
// expanded input axes into output traversal order.
func NewPlan(in, out dims.Spec) (*Plan, error) {
	src, err := dims.Parse(in)
	if err != nil {
		return nil, errors.WithMessagef(err, "input spec %v", in)
	}
	dst, err := dims.Parse(out)
	if err != nil {
		return nil, errors.WithMessagef(err, "output spec %v", out)
	}
	if err := dims.Match(src, dst); err != nil {
		return nil, err
	}

	perm := make([]int, len(dst.Order))
	for k, d := range dst.Order {
		perm[k] = src.Index[d]
	}
	return &Plan{in: in, out: out, src: src, dst: dst, perm: perm}, nil
}

// Perm returns a copy of the axis permutation applied to the expanded input.
func (p *Plan) Perm() []int {
	return append([]int(nil), p.perm...)
}

// Identity reports whether the permutation leaves the axes in place.
func (p *Plan) Identity() bool {
	return len(p.perm) == len(p.src.Expanded) && core.IsIdentity(p.perm)
}

// ExpandedShape returns the one-axis-per-SubDim shape of the input.
func (p *Plan) ExpandedShape() tensor.Shape {
	return tensor.Shape(p.src.Expanded).Clone()
}

// OutShape returns the compact shape of the result.
func (p *Plan) OutShape() tensor.Shape {
	return tensor.Shape(p.dst.Compact).Clone()
}

// Apply runs the plan on t with identity skipping enabled.
func (p *Plan) Apply(t *tensor.Tensor) (*tensor.Tensor, error) {
	return p.apply(t, true)
}

// apply expands t, transposes it into output traversal order and groups
// it into the output's compact shape.
func (p *Plan) apply(t *tensor.Tensor, skipIdentity bool) (*tensor.Tensor, error) {
	if n := p.src.Len(); n != t.NumElements() {
		return nil, &dims.ShapeArityError{Op: "expand", Declared: n, Actual: t.NumElements()}
	}
	expanded, err := t.Reshape(p.src.Expanded)
	if err != nil {
		return nil, errors.Wrapf(err, "expand %v to %v", t.Shape(), p.src.Expanded)
	}

	ordered := expanded
	if !skipIdentity || !p.Identity() {
		ordered, err = expanded.Transpose(p.perm)
		if err != nil {
			return nil, errors.Wrapf(err, "reorder %v into %v", p.in, p.out)
		}
	}

	result, err := ordered.Reshape(p.dst.Compact)
	if err != nil {
		return nil, errors.Wrapf(err, "group into %v", p.dst.Compact)
	}
	return result, nil
}
