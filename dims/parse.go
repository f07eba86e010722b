package dims

import (
	"slices"

	"github.com/pkg/errors"
)

// Layout is the flat traversal of a Spec: every SubDim visited left to
// right, depth first.
type Layout struct {
	// Expanded holds one size per visited SubDim, in traversal order.
	Expanded []int

	// Index maps each SubDim to its traversal position. A SubDim that
	// occurs more than once keeps its last position.
	Index map[SubDim]int

	// Compact holds one size per top-level term: the SubDim size for an
	// atomic term, the product of member sizes for a group.
	Compact []int

	// Order lists every visited SubDim in traversal order.
	Order []SubDim
}

// Parse expands spec into its Layout in a single pass.
func Parse(spec Spec) (*Layout, error) {
	l := &Layout{
		Index: make(map[SubDim]int),
	}
	q := 0
	visit := func(d SubDim) error {
		if err := d.Validate(); err != nil {
			return err
		}
		l.Expanded = append(l.Expanded, d.Size)
		l.Order = append(l.Order, d)
		l.Index[d] = q
		q++
		return nil
	}

	for i, t := range spec {
		switch t := t.(type) {
		case SubDim:
			if err := visit(t); err != nil {
				return nil, err
			}
			l.Compact = append(l.Compact, t.Size)
		case Group:
			w := 1
			for _, d := range t {
				if err := visit(d); err != nil {
					return nil, err
				}
				w *= d.Size
			}
			l.Compact = append(l.Compact, w)
		default:
			return nil, errors.Errorf("term %d of %v: unsupported term %T", i, spec, t)
		}
	}
	return l, nil
}

// Len returns the number of elements described, the product of Expanded.
func (l *Layout) Len() int {
	n := 1
	for _, s := range l.Expanded {
		n *= s
	}
	return n
}

// Set returns the distinct SubDims of the layout.
func (l *Layout) Set() map[SubDim]struct{} {
	set := make(map[SubDim]struct{}, len(l.Order))
	for _, d := range l.Order {
		set[d] = struct{}{}
	}
	return set
}

// Diff returns the SubDims present in l but not in other, sorted by Compare.
func (l *Layout) Diff(other *Layout) []SubDim {
	theirs := other.Set()
	var out []SubDim
	for d := range l.Set() {
		if _, ok := theirs[d]; !ok {
			out = append(out, d)
		}
	}
	slices.SortFunc(out, Compare)
	return out
}

// Match returns a *DimensionMismatchError unless in and out cover exactly
// the same set of SubDims.
func Match(in, out *Layout) error {
	missing := in.Diff(out)
	extra := out.Diff(in)
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	return &DimensionMismatchError{Missing: missing, Extra: extra}
}
