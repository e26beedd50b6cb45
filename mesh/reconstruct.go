package mesh

import (
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// Reconstruct returns the unitary realised by g:
//
//	U = diag(e^{iα}) · L_last ··· L_1 · L_0
//
// where L_k applies the elements of the k-th driving bank (Layout.Groups).
// Elements inside a bank act on disjoint mode pairs, so their order is free.
//
// Errors: ErrShapeMismatch or ErrMalformedInput from Grid.Validate.
// Complexity: O(N³).
func Reconstruct(g *Grid) (*mat.CDense, error) {
	if err := g.Validate(); err != nil {
		return nil, meshErrorf(opReconstruct, err)
	}

	w := identity(g.N)
	for _, e := range g.Elements {
		applyLeft(w, e.Row, Block(e.Theta, e.Phi))
	}
	for i, a := range g.Alpha {
		d := cmplx.Exp(complex(0, a))
		for j := 0; j < g.N; j++ {
			w.Set(i, j, d*w.At(i, j))
		}
	}

	return w, nil
}
