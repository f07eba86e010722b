package dims

import "strings"

// Term is one top-level axis of a Spec. It is either a single SubDim
// (an atomic axis) or a Group whose members are merged into one axis.
type Term interface {
	term()
}

// Group is an ordered run of SubDims flattened into a single axis,
// outermost member first.
type Group []SubDim

func (SubDim) term() {}
func (Group) term()  {}

// Size returns the product of member sizes.
func (g Group) Size() int {
	w := 1
	for _, d := range g {
		w *= d.Size
	}
	return w
}

// Spec describes an array's axes in terms of SubDims.
type Spec []Term

// Flat returns a Spec with one atomic term per SubDim.
func Flat(ds ...SubDim) Spec {
	s := make(Spec, len(ds))
	for i, d := range ds {
		s[i] = d
	}
	return s
}

// String renders the spec by name, e.g. "(a, (b, c))".
func (s Spec) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, t := range s {
		if i > 0 {
			b.WriteString(", ")
		}
		switch t := t.(type) {
		case SubDim:
			b.WriteString(t.Name)
		case Group:
			b.WriteByte('(')
			for j, d := range t {
				if j > 0 {
					b.WriteString(", ")
				}
				b.WriteString(d.Name)
			}
			b.WriteByte(')')
		default:
			b.WriteString("?")
		}
	}
	b.WriteByte(')')
	return b.String()
}
