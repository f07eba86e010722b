package dims

import (
	"fmt"
	"strings"
)

// InvalidDimensionError reports a sub-dimension declared with a non-positive size.
type InvalidDimensionError struct {
	Name string
	Size int
}

func (e *InvalidDimensionError) Error() string {
	return fmt.Sprintf("invalid dimension %q: size %d must be positive", e.Name, e.Size)
}

// DimensionMismatchError reports two specs that do not cover the same set
// of sub-dimensions. Missing holds those only the input names, Extra those
// only the output names; both are sorted by Compare.
type DimensionMismatchError struct {
	Missing []SubDim
	Extra   []SubDim
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("sub-dimension mismatch: missing from output [%s], absent from input [%s]",
		join(e.Missing), join(e.Extra))
}

// ShapeArityError reports a declared count that does not match the actual one:
// element counts for "expand", axis counts for "label".
type ShapeArityError struct {
	Op       string
	Declared int
	Actual   int
}

func (e *ShapeArityError) Error() string {
	return fmt.Sprintf("%s: declared %d does not match actual %d", e.Op, e.Declared, e.Actual)
}

// NotationError reports a malformed text spec. Pos is the byte offset of the
// offending rune.
type NotationError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *NotationError) Error() string {
	return fmt.Sprintf("notation %q at %d: %s", e.Input, e.Pos, e.Msg)
}

func join(ds []SubDim) string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = d.String()
	}
	return strings.Join(parts, ", ")
}
