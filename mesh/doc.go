// Package mesh maps N×N unitary matrices onto a triangular (Clements) mesh
// of Mach–Zehnder interferometers and back.
//
// 🚀 What does it do?
//
//	Decompose    U  → Grid{θ, φ per element; α per output mode}
//	Reconstruct  Grid → U
//	Flatten      Grid → []float64 in the mesh driver's wiring order
//	Unflatten    []float64 → Grid
//
// Mesh shape for N modes:
//
//	rows    = N − 1           (element acts on modes row, row+1)
//	columns = ⌈N/2⌉
//	every (row, col) is populated, except odd rows of the last column
//	when N is odd. Absent positions are not stored at all.
//
// Element transfer matrix (modes m = row, n = row+1):
//
//	T(θ, φ) = e^{iθ} · ⎡ e^{iφ}·cosθ     −i·sinθ ⎤
//	                   ⎣ −i·e^{iφ}·sinθ   cosθ   ⎦
//
// θ = 0 is the bar state (identity), θ = π/2 the cross state (swap).
// T is π-periodic in θ and 2π-periodic in φ, so decomposed angles are
// reported in θ ∈ [0, π), φ ∈ [0, 2π), α ∈ [0, 2π).
//
// Algorithm outline (Decompose):
//  1. Validate: square, finite, non-singular (partial-pivot LU).
//  2. Sweep anti-diagonals p = 0..N−2; even p null entries by
//     right-multiplying Tᴴ, odd p by left-multiplying T. Each (θ, φ) comes
//     from a 2-D root solve (SolveElement).
//  3. Correction pass: every left-multiplied block is undone and re-solved
//     as a right-multiplied one, leaving a single multiplication order.
//  4. α[i] = arg W[i,i] of the now diagonal working matrix.
//
// Complexity: O(N²) element solves, each O(N) to apply, so O(N³) overall.
//
// See example_test.go for usage.
package mesh
