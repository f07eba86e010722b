package permute

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/djeday123/subperm/dims"
	"github.com/djeday123/subperm/indexmat"
	"github.com/djeday123/subperm/pkg/config"
	"github.com/djeday123/subperm/tensor"
)

// abc returns the 2x3x4 index tensor and its sub-dimensions a, b, c.
func abc(t *testing.T) (*tensor.Tensor, dims.SubDim, dims.SubDim, dims.SubDim) {
	t.Helper()
	m, err := indexmat.New(2, 3, 4)
	require.NoError(t, err)
	subs, err := dims.FromShape(m.Shape(), "a", "b", "c")
	require.NoError(t, err)
	return m, subs[0], subs[1], subs[2]
}

func row(t *testing.T, m *tensor.Tensor, r int) []int64 {
	t.Helper()
	require.Equal(t, 2, m.NDim())
	out := make([]int64, m.Shape()[1])
	for j := range out {
		out[j] = m.Int64At(r, j)
	}
	return out
}

func TestGroupTail(t *testing.T) {
	m, a, b, c := abc(t)

	r, err := Permute(m, dims.Flat(a, b, c), dims.Spec{a, dims.Group{b, c}})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 12}, r.Shape())

	want := []int64{111, 112, 113, 114, 121, 122, 123, 124, 131, 132, 133, 134}
	if diff := cmp.Diff(want, row(t, r, 0)); diff != "" {
		t.Errorf("row 0 mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupTailSwapped(t *testing.T) {
	m, a, b, c := abc(t)

	r, err := Permute(m, dims.Flat(a, b, c), dims.Spec{a, dims.Group{c, b}})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 12}, r.Shape())

	want := []int64{111, 121, 131, 112, 122, 132, 113, 123, 133, 114, 124, 134}
	if diff := cmp.Diff(want, row(t, r, 0)); diff != "" {
		t.Errorf("row 0 mismatch (-want +got):\n%s", diff)
	}
	want = []int64{211, 221, 231, 212, 222, 232, 213, 223, 233, 214, 224, 234}
	if diff := cmp.Diff(want, row(t, r, 1)); diff != "" {
		t.Errorf("row 1 mismatch (-want +got):\n%s", diff)
	}
}

func TestReorderKeepsSliceContents(t *testing.T) {
	m, a, b, c := abc(t)
	in := dims.Flat(a, b, c)

	bc, err := Permute(m, in, dims.Spec{a, dims.Group{b, c}})
	require.NoError(t, err)
	cb, err := Permute(m, in, dims.Spec{a, dims.Group{c, b}})
	require.NoError(t, err)
	require.Equal(t, bc.Shape(), cb.Shape())

	for i := 0; i < a.Size; i++ {
		x, y := row(t, bc, i), row(t, cb, i)
		assert.NotEqual(t, x, y)
		slices.Sort(x)
		slices.Sort(y)
		assert.Equal(t, x, y)
	}
}

func TestIdentity(t *testing.T) {
	m, a, b, c := abc(t)
	for _, spec := range []dims.Spec{
		dims.Flat(a, b, c),
		{a, dims.Group{b, c}},
		{dims.Group{a, b, c}},
	} {
		t.Run(spec.String(), func(t *testing.T) {
			src, err := Permute(m, dims.Flat(a, b, c), spec)
			require.NoError(t, err)

			r, err := Permute(src, spec, spec)
			require.NoError(t, err)
			assert.Equal(t, src.Shape(), r.Shape())
			assert.Equal(t, src.ToInt64Slice(), r.ToInt64Slice())
		})
	}
}

func TestGroupUngroupInverse(t *testing.T) {
	m, a, b, c := abc(t)
	flat := dims.Flat(a, b, c)

	for _, grouped := range []dims.Spec{
		{a, dims.Group{b, c}},
		{a, dims.Group{c, b}},
		{dims.Group{c, a}, b},
	} {
		t.Run(grouped.String(), func(t *testing.T) {
			g, err := Permute(m, flat, grouped)
			require.NoError(t, err)
			back, err := Permute(g, grouped, flat)
			require.NoError(t, err)
			assert.Equal(t, m.Shape(), back.Shape())
			assert.Equal(t, m.ToInt64Slice(), back.ToInt64Slice())
		})
	}
}

func TestCoordinatesPreserved(t *testing.T) {
	m, a, b, c := abc(t)

	r, err := Permute(m, dims.Flat(a, b, c), dims.Spec{dims.Group{c, a}, b})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{8, 3}, r.Shape())
	for i := 0; i < a.Size; i++ {
		for j := 0; j < b.Size; j++ {
			for k := 0; k < c.Size; k++ {
				assert.Equal(t, m.Int64At(i, j, k), r.Int64At(k*a.Size+i, j))
			}
		}
	}
}

func TestMismatch(t *testing.T) {
	m, a, b, c := abc(t)
	d := dims.MustNew("d", 1)

	for name, out := range map[string]dims.Spec{
		"omitted":    {a, b},
		"introduced": {a, dims.Group{b, c}, d},
		"resized":    {a, b, dims.MustNew("c", 2), dims.MustNew("c2", 2)},
	} {
		t.Run(name, func(t *testing.T) {
			r, err := Permute(m, dims.Flat(a, b, c), out)
			var dme *dims.DimensionMismatchError
			require.ErrorAs(t, err, &dme)
			assert.Nil(t, r)
		})
	}

	_, err := Permute(m, dims.Flat(a, b, c), dims.Spec{a, dims.Group{b, c}, d})
	var dme *dims.DimensionMismatchError
	require.ErrorAs(t, err, &dme)
	assert.Empty(t, dme.Missing)
	assert.Equal(t, []dims.SubDim{d}, dme.Extra)
}

func TestShapeArity(t *testing.T) {
	m, a, b, _ := abc(t)
	x := dims.MustNew("x", 5)

	_, err := Permute(m, dims.Flat(a, b, x), dims.Spec{dims.Group{a, b}, x})
	var sae *dims.ShapeArityError
	require.ErrorAs(t, err, &sae)
	assert.Equal(t, 30, sae.Declared)
	assert.Equal(t, 24, sae.Actual)
}

func TestInvalidDimension(t *testing.T) {
	m, a, b, _ := abc(t)
	bad := dims.SubDim{Name: "c", Size: 0}

	_, err := Permute(m, dims.Flat(a, b, bad), dims.Flat(a, b, bad))
	var ide *dims.InvalidDimensionError
	assert.ErrorAs(t, err, &ide)
}

func TestRepeatedSubDimFails(t *testing.T) {
	m, a, b, c := abc(t)
	// the sets agree, but a repeated SubDim cannot form a permutation
	_, err := Permute(m, dims.Flat(a, b, c), dims.Spec{a, b, c, a})
	assert.Error(t, err)
}

func TestPermuteStridedInput(t *testing.T) {
	m, a, b, c := abc(t)

	// a column-major-ish view laid out as (c, b, a)
	tr, err := m.Transpose([]int{2, 1, 0})
	require.NoError(t, err)
	require.False(t, tr.IsContiguous())

	r, err := Permute(tr, dims.Flat(c, b, a), dims.Spec{a, dims.Group{b, c}})
	require.NoError(t, err)
	want := []int64{111, 112, 113, 114, 121, 122, 123, 124, 131, 132, 133, 134}
	assert.Equal(t, want, row(t, r, 0))
}

func TestRearrange(t *testing.T) {
	m, a, b, c := abc(t)

	r, err := Rearrange(m, "a b c -> a (c b)", a, b, c)
	require.NoError(t, err)
	assert.Equal(t, []int64{111, 121, 131, 112, 122, 132, 113, 123, 133, 114, 124, 134}, row(t, r, 0))

	_, err = Rearrange(m, "a b c -> a (c b", a, b, c)
	var ne *dims.NotationError
	assert.ErrorAs(t, err, &ne)
}

func TestEngineLogsIdentitySkip(t *testing.T) {
	m, a, b, c := abc(t)
	core, logs := observer.New(zapcore.DebugLevel)
	e := New(config.DefaultConfig().Permute, WithLogger(zap.New(core)))

	r, err := e.Permute(m, dims.Flat(a, b, c), dims.Spec{a, dims.Group{b, c}})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("no transpose").Len())
	assert.Zero(t, logs.FilterMessage("transpose").Len())
	// identity permutes are views onto the input
	assert.Same(t, m.Storage(), r.Storage())

	_, err = e.Permute(m, dims.Flat(a, b, c), dims.Spec{a, dims.Group{c, b}})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("transpose").Len())
}

func TestEngineWithoutIdentitySkip(t *testing.T) {
	m, a, b, c := abc(t)
	e := New(config.PermuteConfig{SkipIdentity: false})

	r, err := e.Permute(m, dims.Flat(a, b, c), dims.Spec{a, dims.Group{b, c}})
	require.NoError(t, err)
	assert.Equal(t, []int64{111, 112, 113, 114}, row(t, r, 0)[:4])
}

func TestEngineClone(t *testing.T) {
	m, a, b, c := abc(t)
	e := New(config.DefaultConfig().Permute, WithClone(true))

	r, err := e.Permute(m, dims.Flat(a, b, c), dims.Flat(a, b, c))
	require.NoError(t, err)
	assert.NotSame(t, m.Storage(), r.Storage())
	assert.True(t, r.IsContiguous())
	assert.Equal(t, m.ToInt64Slice(), r.ToInt64Slice())
}
