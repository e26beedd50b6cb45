package mesh_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/clements/mesh"
)

// maxAbsDiff returns max |aᵢⱼ − bᵢⱼ|.
func maxAbsDiff(t *testing.T, a, b mat.CMatrix) float64 {
	t.Helper()
	ra, ca := a.Dims()
	rb, cb := b.Dims()
	require.Equal(t, ra, rb, "row count")
	require.Equal(t, ca, cb, "column count")

	var worst float64
	for i := 0; i < ra; i++ {
		for j := 0; j < ca; j++ {
			if d := cmplx.Abs(a.At(i, j) - b.At(i, j)); d > worst {
				worst = d
			}
		}
	}

	return worst
}

// offDiagonal returns the largest off-diagonal magnitude.
func offDiagonal(w mat.CMatrix) float64 {
	r, c := w.Dims()
	var worst float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if i != j && cmplx.Abs(w.At(i, j)) > worst {
				worst = cmplx.Abs(w.At(i, j))
			}
		}
	}

	return worst
}

// angleDist is the distance between two angles on the circle.
func angleDist(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 2*math.Pi)

	return math.Min(d, 2*math.Pi-d)
}

// gram returns uᴴ·u.
func gram(u mat.CMatrix) *mat.CDense {
	n, _ := u.Dims()
	out := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var dot complex128
			for k := 0; k < n; k++ {
				dot += cmplx.Conj(u.At(k, i)) * u.At(k, j)
			}
			out.Set(i, j, dot)
		}
	}

	return out
}

func eye(n int) *mat.CDense {
	m := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}

	return m
}

// permutation returns the matrix sending mode j to mode perm[j].
func permutation(perm []int) *mat.CDense {
	n := len(perm)
	m := mat.NewCDense(n, n, nil)
	for j, i := range perm {
		m.Set(i, j, 1)
	}

	return m
}

func randomUnitary(t testing.TB, n int, seed int64) *mat.CDense {
	t.Helper()
	u, err := mesh.RandomUnitary(n, mesh.NewRand(seed))
	require.NoError(t, err)

	return u
}

// emptyMatrix is a 0×0 CMatrix; gonum refuses to allocate one.
type emptyMatrix struct{}

func (emptyMatrix) Dims() (int, int) { return 0, 0 }

func (emptyMatrix) At(int, int) complex128 { panic("empty") }

func (e emptyMatrix) H() mat.CMatrix { return e }

func (e emptyMatrix) T() mat.CMatrix { return e }
