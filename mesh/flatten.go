package mesh

import (
	"fmt"
	"math"
)

// Addressing selects which mixing quantity a flattened sequence carries.
type Addressing int

const (
	// HeaterPhase emits 2θ: the phase the internal heater must add. This is
	// the default and spans [0, 2π), the full voltage range of a device.
	HeaterPhase Addressing = iota

	// HalfAngle emits θ itself.
	HalfAngle
)

// String implements fmt.Stringer.
func (a Addressing) String() string {
	switch a {
	case HeaterPhase:
		return "heater"
	case HalfAngle:
		return "half-angle"
	default:
		return fmt.Sprintf("Addressing(%d)", int(a))
	}
}

// ParseAddressing maps "heater" or "half-angle" to an Addressing.
func ParseAddressing(s string) (Addressing, error) {
	switch s {
	case "heater", "":
		return HeaterPhase, nil
	case "half-angle", "half":
		return HalfAngle, nil
	default:
		return 0, fmt.Errorf("mesh: unknown addressing %q", s)
	}
}

func (a Addressing) valid() bool { return a == HeaterPhase || a == HalfAngle }

func (a Addressing) encode(theta float64) float64 {
	if a == HeaterPhase {
		return 2 * theta
	}

	return theta
}

func (a Addressing) decode(v float64) float64 {
	if a == HeaterPhase {
		return wrap(v/2, math.Pi)
	}

	return wrap(v, math.Pi)
}

// Flatten serialises g into the order phases are driven into hardware:
// for each driving bank (Layout.Groups) the φ of every element, then their
// mixing values; the N output phases come last.
//
// Length is N(N−1)+N. Errors: those of Grid.Validate, or ErrMalformedInput
// for an unknown addressing. Complexity: O(N²).
func Flatten(g *Grid, addressing Addressing) ([]float64, error) {
	if err := g.Validate(); err != nil {
		return nil, meshErrorf(opFlatten, err)
	}
	if !addressing.valid() {
		return nil, fmt.Errorf("%s: %v: %w", opFlatten, addressing, ErrMalformedInput)
	}

	l := Layout{n: g.N}
	out := make([]float64, 0, l.PhaseCount())
	at := 0
	for _, grp := range l.Groups() {
		bank := g.Elements[at : at+len(grp.Rows)]
		for _, e := range bank {
			out = append(out, e.Phi)
		}
		for _, e := range bank {
			out = append(out, addressing.encode(e.Theta))
		}
		at += len(grp.Rows)
	}
	out = append(out, g.Alpha...)

	return out, nil
}

// Unflatten is the inverse of Flatten for an n-mode mesh. Angles are reduced
// into their canonical ranges.
//
// Errors: ErrShapeMismatch for n < 1 or a wrong sequence length;
// ErrMalformedInput for non-finite values or an unknown addressing.
func Unflatten(phases []float64, n int, addressing Addressing) (*Grid, error) {
	l, err := NewLayout(n)
	if err != nil {
		return nil, meshErrorf(opUnflatten, err)
	}
	if len(phases) != l.PhaseCount() {
		return nil, fmt.Errorf("%s: %d phases for N=%d, want %d: %w",
			opUnflatten, len(phases), n, l.PhaseCount(), ErrShapeMismatch)
	}
	if !addressing.valid() {
		return nil, fmt.Errorf("%s: %v: %w", opUnflatten, addressing, ErrMalformedInput)
	}
	for i, v := range phases {
		if !finite(v) {
			return nil, fmt.Errorf("%s: phase %d: %w", opUnflatten, i, ErrMalformedInput)
		}
	}

	g := &Grid{
		N:        n,
		Elements: make([]Element, 0, l.Elements()),
		Alpha:    make([]float64, n),
	}
	at := 0
	for _, grp := range l.Groups() {
		k := len(grp.Rows)
		for i, row := range grp.Rows {
			g.Elements = append(g.Elements, Element{
				Row:   row,
				Col:   grp.Col,
				Phi:   wrap(phases[at+i], 2*math.Pi),
				Theta: addressing.decode(phases[at+k+i]),
			})
		}
		at += 2 * k
	}
	for i := range g.Alpha {
		g.Alpha[i] = wrap(phases[at+i], 2*math.Pi)
	}

	return g, nil
}
