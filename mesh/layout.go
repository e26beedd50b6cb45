package mesh

import "fmt"

// Position addresses one mesh element: it acts on modes Row and Row+1 and
// sits in column Col.
type Position struct {
	Row, Col int
}

// Group is one driving bank: the elements of a single column that share a
// row parity. Elements of a group act on disjoint mode pairs.
type Group struct {
	Col  int
	Odd  bool
	Rows []int // ascending
}

// Layout describes the triangular occupancy of an N-mode mesh.
// The zero value is not usable; construct with NewLayout.
type Layout struct {
	n int
}

// NewLayout returns the layout for n ≥ 1 modes.
func NewLayout(n int) (Layout, error) {
	if n < 1 {
		return Layout{}, fmt.Errorf("%s(%d): %w", opLayout, n, ErrShapeMismatch)
	}

	return Layout{n: n}, nil
}

// N returns the number of optical modes.
func (l Layout) N() int { return l.n }

// Rows returns N − 1.
func (l Layout) Rows() int { return l.n - 1 }

// Cols returns ⌈N/2⌉.
func (l Layout) Cols() int { return (l.n + 1) / 2 }

// Elements returns the number of populated positions, N(N−1)/2.
func (l Layout) Elements() int { return l.n * (l.n - 1) / 2 }

// PhaseCount returns the flattened sequence length: two angles per element
// plus N output phases.
func (l Layout) PhaseCount() int { return 2*l.Elements() + l.n }

// skipsLastOdd reports whether the odd-row bank of column col is absent.
func (l Layout) skipsLastOdd(col int) bool {
	return l.n%2 == 1 && col == l.Cols()-1
}

// Active reports whether (row, col) is a populated position.
// Complexity: O(1).
func (l Layout) Active(row, col int) bool {
	if row < 0 || row >= l.Rows() || col < 0 || col >= l.Cols() {
		return false
	}

	return !(row%2 == 1 && l.skipsLastOdd(col))
}

// Groups returns the non-empty driving banks in wiring order: columns left
// to right, within a column the even-row bank before the odd-row bank.
// Complexity: O(N²).
func (l Layout) Groups() []Group {
	groups := make([]Group, 0, 2*l.Cols())
	for col := 0; col < l.Cols(); col++ {
		for _, odd := range []bool{false, true} {
			if odd && l.skipsLastOdd(col) {
				continue
			}
			g := Group{Col: col, Odd: odd}
			start := 0
			if odd {
				start = 1
			}
			for row := start; row < l.Rows(); row += 2 {
				g.Rows = append(g.Rows, row)
			}
			if len(g.Rows) > 0 {
				groups = append(groups, g)
			}
		}
	}

	return groups
}

// Positions flattens Groups into the wiring order of individual elements.
func (l Layout) Positions() []Position {
	out := make([]Position, 0, l.Elements())
	for _, g := range l.Groups() {
		for _, row := range g.Rows {
			out = append(out, Position{Row: row, Col: g.Col})
		}
	}

	return out
}
