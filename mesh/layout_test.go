package mesh_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/clements/mesh"
)

// TestLayout_Counts checks occupancy arithmetic for even and odd N.
func TestLayout_Counts(t *testing.T) {
	for n := 1; n <= 9; n++ {
		l, err := mesh.NewLayout(n)
		require.NoError(t, err)

		assert.Equal(t, n-1, l.Rows(), "rows for N=%d", n)
		assert.Equal(t, (n+1)/2, l.Cols(), "cols for N=%d", n)
		assert.Equal(t, n*(n-1)/2, l.Elements(), "elements for N=%d", n)
		assert.Len(t, l.Positions(), n*(n-1)/2, "positions for N=%d", n)
		assert.Equal(t, n*(n-1)+n, l.PhaseCount(), "phase count for N=%d", n)

		active := 0
		for r := 0; r < l.Rows(); r++ {
			for c := 0; c < l.Cols(); c++ {
				if l.Active(r, c) {
					active++
				}
			}
		}
		assert.Equal(t, l.Elements(), active, "active cells for N=%d", n)
	}
}

// TestLayout_OddSkip verifies the odd rows of the last column are absent for odd N.
func TestLayout_OddSkip(t *testing.T) {
	l, err := mesh.NewLayout(5)
	require.NoError(t, err)

	assert.True(t, l.Active(0, 2))
	assert.True(t, l.Active(2, 2))
	assert.False(t, l.Active(1, 2))
	assert.False(t, l.Active(3, 2))
	assert.False(t, l.Active(4, 0), "row out of range")
	assert.False(t, l.Active(0, 3), "column out of range")
}

// TestLayout_Groups pins the wiring order.
func TestLayout_Groups(t *testing.T) {
	l, err := mesh.NewLayout(4)
	require.NoError(t, err)
	assert.Equal(t, []mesh.Group{
		{Col: 0, Odd: false, Rows: []int{0, 2}},
		{Col: 0, Odd: true, Rows: []int{1}},
		{Col: 1, Odd: false, Rows: []int{0, 2}},
		{Col: 1, Odd: true, Rows: []int{1}},
	}, l.Groups())

	l, err = mesh.NewLayout(3)
	require.NoError(t, err)
	assert.Equal(t, []mesh.Group{
		{Col: 0, Odd: false, Rows: []int{0}},
		{Col: 0, Odd: true, Rows: []int{1}},
		{Col: 1, Odd: false, Rows: []int{0}},
	}, l.Groups())

	l, err = mesh.NewLayout(1)
	require.NoError(t, err)
	assert.Empty(t, l.Groups())
}

func TestLayout_Invalid(t *testing.T) {
	_, err := mesh.NewLayout(0)
	assert.ErrorIs(t, err, mesh.ErrShapeMismatch)
}

// TestBlock_Canonical checks the bar, cross and unitarity properties.
func TestBlock_Canonical(t *testing.T) {
	bar := mesh.Block(0, 0)
	assert.Equal(t, [2][2]complex128{{1, 0}, {0, 1}}, bar, "θ=0 is the identity")

	cross := mesh.Block(math.Pi/2, 0)
	assert.InDelta(t, 0, cmplx.Abs(cross[0][0]), 1e-15)
	assert.InDelta(t, 0, cmplx.Abs(cross[1][1]), 1e-15)
	assert.InDelta(t, 0, cmplx.Abs(cross[0][1]-1), 1e-15)
	assert.InDelta(t, 0, cmplx.Abs(cross[1][0]-1), 1e-15)

	for _, tc := range [][2]float64{{0.3, 1.1}, {1.2, 5.9}, {2.7, 0.01}} {
		b := mesh.Block(tc[0], tc[1])
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				var dot complex128
				for k := 0; k < 2; k++ {
					dot += cmplx.Conj(b[k][i]) * b[k][j]
				}
				want := complex(0, 0)
				if i == j {
					want = 1
				}
				assert.InDelta(t, 0, cmplx.Abs(dot-want), 1e-14, "TᴴT at %v", tc)
			}
		}

		shifted := mesh.Block(tc[0]+math.Pi, tc[1])
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				assert.InDelta(t, 0, cmplx.Abs(b[i][j]-shifted[i][j]), 1e-14, "π-periodic in θ")
			}
		}
	}
}

// TestGrid_Validate covers the three validation stages.
func TestGrid_Validate(t *testing.T) {
	g, err := mesh.Unflatten(make([]float64, 4*3+4), 4, mesh.HeaterPhase)
	require.NoError(t, err)
	require.NoError(t, g.Validate())

	short := g.Clone()
	short.Alpha = short.Alpha[:3]
	assert.ErrorIs(t, short.Validate(), mesh.ErrShapeMismatch)

	missing := g.Clone()
	missing.Elements = missing.Elements[1:]
	assert.ErrorIs(t, missing.Validate(), mesh.ErrShapeMismatch)

	swapped := g.Clone()
	swapped.Elements[0], swapped.Elements[1] = swapped.Elements[1], swapped.Elements[0]
	assert.ErrorIs(t, swapped.Validate(), mesh.ErrShapeMismatch)

	bad := g.Clone()
	bad.Elements[2].Theta = math.NaN()
	assert.ErrorIs(t, bad.Validate(), mesh.ErrMalformedInput)

	var nilGrid *mesh.Grid
	assert.ErrorIs(t, nilGrid.Validate(), mesh.ErrShapeMismatch)

	e, ok := g.At(2, 1)
	assert.True(t, ok)
	assert.Equal(t, mesh.Position{Row: 2, Col: 1}, e.Position())
	_, ok = g.At(3, 0)
	assert.False(t, ok)
}

func TestWrap(t *testing.T) {
	assert.Equal(t, 0.0, mesh.ExportedWrap(0, math.Pi))
	assert.InDelta(t, math.Pi-0.5, mesh.ExportedWrap(-0.5, math.Pi), 1e-15)
	assert.InDelta(t, 0.5, mesh.ExportedWrap(2*math.Pi+0.5, 2*math.Pi), 1e-15)
	assert.Equal(t, 0.0, mesh.ExportedWrap(math.Pi, math.Pi))
}
