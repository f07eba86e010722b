package dims

// FromShape pairs names[i] with shape[i], one SubDim per axis. Every axis
// must be labeled: a name count different from the rank is a
// *ShapeArityError.
func FromShape(shape []int, names ...string) ([]SubDim, error) {
	if len(names) != len(shape) {
		return nil, &ShapeArityError{Op: "label", Declared: len(names), Actual: len(shape)}
	}
	out := make([]SubDim, len(names))
	for i, name := range names {
		d, err := New(name, shape[i])
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

// FromGroups flattens groups of SubDim declarations into one vocabulary,
// preserving order and validating every size.
func FromGroups(groups ...[]SubDim) ([]SubDim, error) {
	var out []SubDim
	for _, g := range groups {
		for _, d := range g {
			if err := d.Validate(); err != nil {
				return nil, err
			}
			out = append(out, d)
		}
	}
	return out, nil
}
