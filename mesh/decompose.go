// SPDX-License-Identifier: MIT

package mesh

import (
	"math"
	"math/cmplx"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// Stage names reported by PositionError and the debug log.
const (
	stageSweep      = "sweep"
	stageCorrection = "correction"
)

// Decompose factors the N×N unitary u into a rectangular mesh of N(N−1)/2
// elements followed by N output phases, such that Reconstruct(grid) ≈ u.
//
// Implementation:
//   - Stage 1 (Validate): non-empty, square, finite, non-singular.
//   - Stage 2 (Sweep): anti-diagonals p = 0..N−2; even p null from the right
//     (W ← W·Tᴴ), odd p null from the left (W ← T·W). W ends up diagonal.
//   - Stage 3 (Correction): every left element is moved past the diagonal by
//     re-solving it as a right element, in reverse sweep order.
//   - Stage 4 (Finalize): α[i] = arg W[i,i]; θ is reduced mod π, φ and α mod 2π.
//
// Errors: ErrMalformedInput (optionally with ErrSingular) for bad input;
// a *PositionError wrapping ErrNonConvergence when an element cannot be
// solved. The input is never modified.
// Determinism: identical inputs and options give identical grids.
// Complexity: O(N³) time, O(N²) memory.
func Decompose(u mat.CMatrix, opts ...Option) (*Grid, error) {
	o := gatherOptions(opts...)
	w, err := validateInput(u, o.singularTol)
	if err != nil {
		return nil, err
	}

	s := newSweep(w, o)
	if err = s.null(); err != nil {
		return nil, meshErrorf(opDecompose, err)
	}
	if err = s.canonicalize(); err != nil {
		return nil, meshErrorf(opDecompose, err)
	}

	return s.grid(), nil
}

// leftStep remembers an element found by left multiplication.
type leftStep struct {
	pos  Position
	mode int
	sol  Solution
}

// sweep carries the working matrix through the decomposition stages.
type sweep struct {
	w      *mat.CDense
	layout Layout
	opts   Options
	theta  [][]float64
	phi    [][]float64
	lefts  []leftStep
}

func newSweep(w *mat.CDense, o Options) *sweep {
	n, _ := w.Dims()
	l := Layout{n: n}
	s := &sweep{
		w:      w,
		layout: l,
		opts:   o,
		theta:  make([][]float64, l.Rows()),
		phi:    make([][]float64, l.Rows()),
		lefts:  make([]leftStep, 0, l.Elements()/2),
	}
	for r := range s.theta {
		s.theta[r] = make([]float64, l.Cols())
		s.phi[r] = make([]float64, l.Cols())
	}

	return s
}

// null runs the alternating sweep until W is diagonal up to the stored left
// elements. Right elements fill each row from the first column forward, left
// elements from the last populated column backward.
func (s *sweep) null() error {
	n := s.layout.N()
	rows, cols := s.layout.Rows(), s.layout.Cols()

	fore := make([]int, rows)
	back := make([]int, rows)
	for r := range back {
		back[r] = cols - 1
		if r%2 == 1 && s.layout.skipsLastOdd(cols-1) {
			back[r]--
		}
	}

	for p := 0; p < n-1; p++ {
		for q := 0; q <= p; q++ {
			if p%2 == 0 {
				x, y := n-1-q, p-q
				pos := Position{Row: y, Col: fore[y]}
				fore[y]++

				sol, err := s.solve(stageSweep, pos, Target{Mode: y, Row: x, Col: y, Side: RightMultiply})
				if err != nil {
					return err
				}
				applyRightH(s.w, y, Block(sol.Theta, sol.Phi))
				s.store(pos, sol)

				continue
			}

			x, y := n-1-p+q, q
			m := x - 1
			pos := Position{Row: m, Col: back[m]}
			back[m]--

			sol, err := s.solve(stageSweep, pos, Target{Mode: m, Row: x, Col: y, Side: LeftMultiply})
			if err != nil {
				return err
			}
			applyLeft(s.w, m, Block(sol.Theta, sol.Phi))
			s.lefts = append(s.lefts, leftStep{pos: pos, mode: m, sol: sol})
		}
	}

	return nil
}

// canonicalize rewrites every Tᴴ·D as D′·T′ so that all elements act before
// the output phase screen. Must run after null.
func (s *sweep) canonicalize() error {
	for i := len(s.lefts) - 1; i >= 0; i-- {
		st := s.lefts[i]
		m := st.mode
		applyLeftH(s.w, m, Block(st.sol.Theta, st.sol.Phi))

		sol, err := s.solve(stageCorrection, st.pos, Target{Mode: m, Row: m + 1, Col: m, Side: RightMultiply})
		if err != nil {
			return err
		}
		applyRightH(s.w, m, Block(sol.Theta, sol.Phi))
		s.store(st.pos, sol)
	}

	return nil
}

func (s *sweep) solve(stage string, pos Position, t Target) (Solution, error) {
	sol, err := solveElement(s.w, t, s.opts)
	entry := s.opts.log.WithFields(logrus.Fields{
		"stage":      stage,
		"row":        pos.Row,
		"col":        pos.Col,
		"side":       t.Side.String(),
		"iterations": sol.Iterations,
		"residual":   sol.Residual,
	})
	if err != nil {
		entry.WithError(err).Warn("element solve failed")
		return sol, &PositionError{Stage: stage, Row: pos.Row, Col: pos.Col, Err: err}
	}
	entry.WithFields(logrus.Fields{"theta": sol.Theta, "phi": sol.Phi}).Debug("element solved")

	return sol, nil
}

func (s *sweep) store(pos Position, sol Solution) {
	s.theta[pos.Row][pos.Col] = sol.Theta
	s.phi[pos.Row][pos.Col] = sol.Phi
}

// grid reads the final angles and the diagonal phases into a Grid.
func (s *sweep) grid() *Grid {
	n := s.layout.N()
	g := &Grid{
		N:        n,
		Elements: make([]Element, 0, s.layout.Elements()),
		Alpha:    make([]float64, n),
	}
	for _, p := range s.layout.Positions() {
		g.Elements = append(g.Elements, Element{
			Row:   p.Row,
			Col:   p.Col,
			Theta: wrap(s.theta[p.Row][p.Col], math.Pi),
			Phi:   wrap(s.phi[p.Row][p.Col], 2*math.Pi),
		})
	}
	for i := 0; i < n; i++ {
		g.Alpha[i] = wrap(cmplx.Phase(s.w.At(i, i)), 2*math.Pi)
	}

	return g
}
