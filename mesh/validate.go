package mesh

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// validateInput checks that u is a non-empty, square, finite and
// non-singular complex matrix and returns a working copy of it.
//
// Stage 1: shape. Stage 2: finiteness (collects the max magnitude).
// Stage 3: partial-pivot LU on the copy; a pivot smaller than
// singularTol·max|uᵢⱼ| marks the matrix singular.
//
// Unitarity is not checked: a non-unitary input decomposes into a mesh that
// reconstructs some other matrix.
// Complexity: O(N³).
func validateInput(u mat.CMatrix, singularTol float64) (*mat.CDense, error) {
	if u == nil {
		return nil, fmt.Errorf("%s: nil matrix: %w", opDecompose, ErrMalformedInput)
	}
	rows, cols := u.Dims()
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("%s: empty matrix: %w", opDecompose, ErrMalformedInput)
	}
	if rows != cols {
		return nil, fmt.Errorf("%s: non-square matrix %dx%d: %w", opDecompose, rows, cols, ErrMalformedInput)
	}

	w := cloneC(u)
	var scale float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			z := w.At(i, j)
			if cmplx.IsNaN(z) || cmplx.IsInf(z) {
				return nil, fmt.Errorf("%s: entry (%d,%d) is not finite: %w", opDecompose, i, j, ErrMalformedInput)
			}
			if a := cmplx.Abs(z); a > scale {
				scale = a
			}
		}
	}

	if k, ok := singularPivot(cloneC(w), singularTol*scale); ok {
		return nil, fmt.Errorf("%s: zero pivot at column %d: %w: %w", opDecompose, k, ErrMalformedInput, ErrSingular)
	}

	return w, nil
}

// singularPivot runs Doolittle elimination with row pivoting on a (in place)
// and reports the first column whose best pivot magnitude is <= threshold.
func singularPivot(a *mat.CDense, threshold float64) (int, bool) {
	n, _ := a.Dims()
	for k := 0; k < n; k++ {
		// Stage 1: pick the largest pivot in column k.
		p, best := k, cmplx.Abs(a.At(k, k))
		for i := k + 1; i < n; i++ {
			if v := cmplx.Abs(a.At(i, k)); v > best {
				p, best = i, v
			}
		}
		if best <= threshold {
			return k, true
		}
		if p != k {
			for j := 0; j < n; j++ {
				x, y := a.At(k, j), a.At(p, j)
				a.Set(k, j, y)
				a.Set(p, j, x)
			}
		}

		// Stage 2: eliminate below the pivot.
		pivot := a.At(k, k)
		for i := k + 1; i < n; i++ {
			l := a.At(i, k) / pivot
			if l == 0 {
				continue
			}
			for j := k; j < n; j++ {
				a.Set(i, j, a.At(i, j)-l*a.At(k, j))
			}
		}
	}

	return 0, false
}
