package mesh

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// Block returns the 2×2 transfer matrix of one element:
//
//	T(θ, φ) = e^{iθ} · [[e^{iφ}·cosθ, −i·sinθ], [−i·e^{iφ}·sinθ, cosθ]]
//
// This is the only parameterization used by the solver, the decomposer and
// the reconstructor.
func Block(theta, phi float64) [2][2]complex128 {
	g := cmplx.Exp(complex(0, theta))
	p := cmplx.Exp(complex(0, phi))
	c := complex(math.Cos(theta), 0)
	s := complex(math.Sin(theta), 0)

	return [2][2]complex128{
		{g * p * c, g * -1i * s},
		{g * -1i * p * s, g * c},
	}
}

// applyLeft sets W ← T·W where T acts on rows (m, m+1).
func applyLeft(w *mat.CDense, m int, t [2][2]complex128) {
	_, cols := w.Dims()
	for c := 0; c < cols; c++ {
		a, b := w.At(m, c), w.At(m+1, c)
		w.Set(m, c, t[0][0]*a+t[0][1]*b)
		w.Set(m+1, c, t[1][0]*a+t[1][1]*b)
	}
}

// applyLeftH sets W ← Tᴴ·W where T acts on rows (m, m+1).
func applyLeftH(w *mat.CDense, m int, t [2][2]complex128) {
	_, cols := w.Dims()
	for c := 0; c < cols; c++ {
		a, b := w.At(m, c), w.At(m+1, c)
		w.Set(m, c, cmplx.Conj(t[0][0])*a+cmplx.Conj(t[1][0])*b)
		w.Set(m+1, c, cmplx.Conj(t[0][1])*a+cmplx.Conj(t[1][1])*b)
	}
}

// applyRightH sets W ← W·Tᴴ where T acts on columns (m, m+1).
func applyRightH(w *mat.CDense, m int, t [2][2]complex128) {
	rows, _ := w.Dims()
	for r := 0; r < rows; r++ {
		a, b := w.At(r, m), w.At(r, m+1)
		w.Set(r, m, a*cmplx.Conj(t[0][0])+b*cmplx.Conj(t[0][1]))
		w.Set(r, m+1, a*cmplx.Conj(t[1][0])+b*cmplx.Conj(t[1][1]))
	}
}

// identity returns the n×n complex identity.
func identity(n int) *mat.CDense {
	m := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}

	return m
}

// cloneC copies any CMatrix into a fresh CDense.
func cloneC(u mat.CMatrix) *mat.CDense {
	r, c := u.Dims()
	out := mat.NewCDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, u.At(i, j))
		}
	}

	return out
}
