package mesh

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Levenberg–Marquardt damping schedule.
const (
	lmInitialDamping = 1e-6
	lmMinDamping     = 1e-12
	lmMaxDamping     = 1e12
	lmDampingFactor  = 10.0
)

// Side selects how an element block is applied to the working matrix.
type Side int

const (
	// RightMultiply nulls entry (Row, Mode) of W·Tᴴ.
	RightMultiply Side = iota

	// LeftMultiply nulls entry (Mode+1, Col) of T·W.
	LeftMultiply
)

// String implements fmt.Stringer.
func (s Side) String() string {
	switch s {
	case RightMultiply:
		return "right"
	case LeftMultiply:
		return "left"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// Target names the entry an element must null.
//
// The block acts on modes (Mode, Mode+1). For RightMultiply the nulled entry
// is (Row, Col) with Col == Mode; for LeftMultiply it is (Row, Col) with
// Row == Mode+1.
type Target struct {
	Mode int
	Row  int
	Col  int
	Side Side
}

// Solution is the outcome of one element solve.
type Solution struct {
	Theta      float64
	Phi        float64
	Iterations int
	Residual   float64 // |target entry| after applying the block
}

// SolveElement finds (θ, φ) such that applying Block(θ, φ) on the given side
// of w drives the target entry to zero (real and imaginary part).
//
// Implementation:
//   - Stage 1 (Validate): square w, target consistent with Side and in range.
//   - Stage 2 (Shortcut): (0, 0) is returned when it already nulls the entry.
//   - Stage 3 (Execute): Levenberg–Marquardt from (1, 1) on the residual
//     (Re, Im), Jacobian by central finite differences. A stalled run is
//     restarted once from the closed-form null.
//   - Stage 4 (Finalize): when the entry stays nulled with φ = 0, φ is pinned
//     to 0 (the cross-phase is then irrelevant).
//
// Errors: ErrMalformedInput for an invalid target; ErrNonConvergence when
// the residual does not reach the tolerance within the iteration budget.
// Complexity: O(2·maxIter) residual evaluations; independent of N.
func SolveElement(w mat.CMatrix, t Target, opts ...Option) (Solution, error) {
	return solveElement(w, t, gatherOptions(opts...))
}

func solveElement(w mat.CMatrix, t Target, o Options) (Solution, error) {
	a, b, err := t.coefficients(w)
	if err != nil {
		return Solution{}, meshErrorf(opSolve, err)
	}
	res := t.residual(a, b)
	magnitude := func(theta, phi float64) float64 { return cmplx.Abs(res(theta, phi)) }

	if r := magnitude(0, 0); r <= o.tol {
		return Solution{Residual: r}, nil
	}

	f := func(y, x []float64) {
		z := res(x[0], x[1])
		y[0], y[1] = real(z), imag(z)
	}

	var (
		x    []float64
		cur  float64
		iter int
	)
	for _, start := range [][2]float64{{initialTheta, initialPhi}, t.closedForm(a, b)} {
		var n int
		x, cur, n = levenbergMarquardt(f, start, o)
		iter += n
		if cur <= o.tol {
			break
		}
	}
	if cur > o.tol {
		return Solution{Theta: x[0], Phi: x[1], Iterations: iter, Residual: cur},
			fmt.Errorf("%s: residual %.3g after %d iterations: %w", opSolve, cur, iter, ErrNonConvergence)
	}

	theta, phi := x[0], x[1]
	if r := magnitude(theta, 0); r <= o.tol {
		phi, cur = 0, r
	}

	return Solution{Theta: theta, Phi: phi, Iterations: iter, Residual: cur}, nil
}

// levenbergMarquardt minimizes |f(x)| from start and returns the last
// accepted point, its residual norm and the iterations spent.
func levenbergMarquardt(f func(y, x []float64), start [2]float64, o Options) ([]float64, float64, int) {
	x := []float64{start[0], start[1]}
	y := make([]float64, 2)
	f(y, x)
	cur := floats.Norm(y, 2)

	jac := mat.NewDense(2, 2, nil)
	settings := &fd.JacobianSettings{Formula: fd.Central}
	lambda := lmInitialDamping
	iter := 0
	for ; iter < o.maxIter && cur > o.tol; iter++ {
		fd.Jacobian(jac, f, x, settings)

		var jtj mat.Dense
		jtj.Mul(jac.T(), jac)
		var grad mat.VecDense
		grad.MulVec(jac.T(), mat.NewVecDense(2, y))

		improved := false
		for lambda <= lmMaxDamping {
			damped := mat.NewDense(2, 2, []float64{
				jtj.At(0, 0) + lambda, jtj.At(0, 1),
				jtj.At(1, 0), jtj.At(1, 1) + lambda,
			})
			var step mat.VecDense
			if err := step.SolveVec(damped, &grad); err != nil {
				var cond mat.Condition
				if !errors.As(err, &cond) {
					lambda *= lmDampingFactor
					continue
				}
			}

			cand := []float64{x[0] - step.AtVec(0), x[1] - step.AtVec(1)}
			yc := make([]float64, 2)
			f(yc, cand)
			if nc := floats.Norm(yc, 2); nc < cur {
				x, y, cur = cand, yc, nc
				lambda = math.Max(lambda/lmDampingFactor, lmMinDamping)
				improved = true
				break
			}
			lambda *= lmDampingFactor
		}
		if !improved {
			break
		}
	}

	return x, cur, iter
}

// closedForm returns the analytic null of the target entry, used to restart
// a stalled solve:
//
//	right: tan θ = |a|/|b|, φ = arg a − arg b + π/2
//	left:  tan θ = |b|/|a|, φ = arg b − arg a − π/2
func (t Target) closedForm(a, b complex128) [2]float64 {
	if t.Side == RightMultiply {
		return [2]float64{math.Atan2(cmplx.Abs(a), cmplx.Abs(b)), cmplx.Phase(a) - cmplx.Phase(b) + math.Pi/2}
	}

	return [2]float64{math.Atan2(cmplx.Abs(b), cmplx.Abs(a)), cmplx.Phase(b) - cmplx.Phase(a) - math.Pi/2}
}

// coefficients returns the two working-matrix entries the residual mixes.
func (t Target) coefficients(w mat.CMatrix) (complex128, complex128, error) {
	if w == nil {
		return 0, 0, ErrMalformedInput
	}
	n, c := w.Dims()
	if n != c || t.Mode < 0 || t.Mode+1 >= n {
		return 0, 0, ErrMalformedInput
	}

	switch t.Side {
	case RightMultiply:
		if t.Col != t.Mode || t.Row < 0 || t.Row >= n {
			return 0, 0, ErrMalformedInput
		}
		return w.At(t.Row, t.Mode), w.At(t.Row, t.Mode+1), nil
	case LeftMultiply:
		if t.Row != t.Mode+1 || t.Col < 0 || t.Col >= n {
			return 0, 0, ErrMalformedInput
		}
		return w.At(t.Mode, t.Col), w.At(t.Mode+1, t.Col), nil
	default:
		return 0, 0, ErrMalformedInput
	}
}

// residual returns the target entry as a function of (θ, φ):
//
//	right: (W·Tᴴ)[row, m] = a·conj(T₀₀) + b·conj(T₀₁)
//	left:  (T·W)[m+1, col] = T₁₀·a + T₁₁·b
func (t Target) residual(a, b complex128) func(theta, phi float64) complex128 {
	if t.Side == RightMultiply {
		return func(theta, phi float64) complex128 {
			blk := Block(theta, phi)
			return a*cmplx.Conj(blk[0][0]) + b*cmplx.Conj(blk[0][1])
		}
	}

	return func(theta, phi float64) complex128 {
		blk := Block(theta, phi)
		return blk[1][0]*a + blk[1][1]*b
	}
}
