package mesh_test

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/clements/mesh"
)

// ExampleDecompose programs a 2-mode swap: one element in the cross state.
func ExampleDecompose() {
	swap := mat.NewCDense(2, 2, []complex128{0, 1, 1, 0})

	g, err := mesh.Decompose(swap)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	e := g.Elements[0]
	fmt.Printf("elements=%d theta=%.4f phi=%.4f\n", len(g.Elements), e.Theta, e.Phi)
	// Output:
	// elements=1 theta=1.5708 phi=0.0000
}

// ExampleFlatten shows the drive order for a 3-mode mesh.
func ExampleFlatten() {
	u, _ := mesh.RandomUnitary(3, mesh.NewRand(42))
	g, _ := mesh.Decompose(u)

	phases, _ := mesh.Flatten(g, mesh.HeaterPhase)
	l, _ := mesh.NewLayout(3)
	fmt.Println(len(phases), l.PhaseCount())
	for _, grp := range l.Groups() {
		fmt.Printf("col=%d odd=%v rows=%v\n", grp.Col, grp.Odd, grp.Rows)
	}

	back, _ := mesh.Reconstruct(g)
	worst := 0.0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			d := u.At(i, j) - back.At(i, j)
			worst = math.Max(worst, math.Hypot(real(d), imag(d)))
		}
	}
	fmt.Println("reconstructed:", worst < 1e-9)
	// Output:
	// 9 9
	// col=0 odd=false rows=[0]
	// col=0 odd=true rows=[1]
	// col=1 odd=false rows=[0]
	// reconstructed: true
}
