// Package dims describes tensor axes in terms of named sub-dimensions and
// parses such descriptions into the flat traversal used for permuting.
package dims

import (
	"cmp"
	"fmt"
)

// SubDim is a named, sized symbolic sub-dimension. Two SubDims are the same
// iff name and size are equal, so values can key maps and populate sets.
type SubDim struct {
	Name string
	Size int
}

// New returns a SubDim, rejecting non-positive sizes.
func New(name string, size int) (SubDim, error) {
	d := SubDim{Name: name, Size: size}
	if err := d.Validate(); err != nil {
		return SubDim{}, err
	}
	return d, nil
}

// MustNew is like New but panics on an invalid size.
func MustNew(name string, size int) SubDim {
	d, err := New(name, size)
	if err != nil {
		panic(err)
	}
	return d
}

// Validate returns an *InvalidDimensionError if the size is not positive.
func (d SubDim) Validate() error {
	if d.Size <= 0 {
		return &InvalidDimensionError{Name: d.Name, Size: d.Size}
	}
	return nil
}

func (d SubDim) String() string {
	return fmt.Sprintf("subdim(%s,%d)", d.Name, d.Size)
}

// Compare orders SubDims by name, then size.
func Compare(a, b SubDim) int {
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return cmp.Compare(a.Size, b.Size)
}
