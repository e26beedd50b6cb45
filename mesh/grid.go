package mesh

import (
	"fmt"
	"math"
)

// Element holds the programmed angles of one MZI.
//
//   - Theta — mixing angle θ ∈ [0, π) (0 = bar, π/2 = cross).
//   - Phi   — input cross-phase φ ∈ [0, 2π).
type Element struct {
	Row   int
	Col   int
	Theta float64
	Phi   float64
}

// Position returns the element's mesh position.
func (e Element) Position() Position { return Position{Row: e.Row, Col: e.Col} }

// Grid is the unit of exchange between Decompose, Reconstruct and Flatten.
//
// Elements are stored in wiring order (see Layout.Groups) and only populated
// positions are present. Alpha holds one output phase per mode.
type Grid struct {
	N        int
	Elements []Element
	Alpha    []float64
}

// Layout returns the grid's layout, or ErrShapeMismatch for N < 1.
func (g *Grid) Layout() (Layout, error) {
	if g == nil {
		return Layout{}, ErrShapeMismatch
	}

	return NewLayout(g.N)
}

// At returns the element at (row, col) and whether it exists.
// Complexity: O(N²).
func (g *Grid) At(row, col int) (Element, bool) {
	if g == nil {
		return Element{}, false
	}
	for _, e := range g.Elements {
		if e.Row == row && e.Col == col {
			return e, true
		}
	}

	return Element{}, false
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	if g == nil {
		return nil
	}
	out := &Grid{
		N:        g.N,
		Elements: make([]Element, len(g.Elements)),
		Alpha:    make([]float64, len(g.Alpha)),
	}
	copy(out.Elements, g.Elements)
	copy(out.Alpha, g.Alpha)

	return out
}

// Validate checks that the grid's occupancy matches its N exactly.
// Stage 1: N ≥ 1 and len(Alpha) == N.
// Stage 2: element positions equal Layout.Positions() in order.
// Stage 3: every angle is finite.
//
// Errors: ErrShapeMismatch for stages 1–2, ErrMalformedInput for stage 3.
// Complexity: O(N²).
func (g *Grid) Validate() error {
	l, err := g.Layout()
	if err != nil {
		return meshErrorf(opValidate, err)
	}
	if len(g.Alpha) != g.N {
		return fmt.Errorf("%s: %d output phases for N=%d: %w", opValidate, len(g.Alpha), g.N, ErrShapeMismatch)
	}

	want := l.Positions()
	if len(g.Elements) != len(want) {
		return fmt.Errorf("%s: %d elements for N=%d, want %d: %w", opValidate, len(g.Elements), g.N, len(want), ErrShapeMismatch)
	}
	for i, p := range want {
		e := g.Elements[i]
		if e.Position() != p {
			return fmt.Errorf("%s: element %d at (%d,%d), want (%d,%d): %w",
				opValidate, i, e.Row, e.Col, p.Row, p.Col, ErrShapeMismatch)
		}
		if !finite(e.Theta) || !finite(e.Phi) {
			return fmt.Errorf("%s: element (%d,%d): %w", opValidate, e.Row, e.Col, ErrMalformedInput)
		}
	}
	for i, a := range g.Alpha {
		if !finite(a) {
			return fmt.Errorf("%s: alpha[%d]: %w", opValidate, i, ErrMalformedInput)
		}
	}

	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// wrap reduces x into [0, period).
func wrap(x, period float64) float64 {
	r := math.Mod(x, period)
	if r < 0 {
		r += period
	}
	if r >= period {
		r = 0
	}

	return r
}
