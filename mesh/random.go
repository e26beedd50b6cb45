// SPDX-License-Identifier: MIT

package mesh

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// defaultSeed is used when callers pass seed == 0.
const defaultSeed int64 = 1

// NewRand returns a deterministic *rand.Rand. seed == 0 selects a fixed
// default so the zero value is reproducible too.
//
// The result is not goroutine-safe; use DeriveSeed for parallel streams.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}

	return rand.New(rand.NewSource(seed))
}

// DeriveSeed mixes a parent seed and a stream id into an independent seed
// (SplitMix64 finalizer).
func DeriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// RandomUnitary draws an n×n unitary from the Haar measure: a matrix of
// i.i.d. complex Gaussians orthonormalised column by column (modified
// Gram–Schmidt, which leaves R with a positive real diagonal).
// A nil rng uses NewRand(0).
//
// Errors: ErrShapeMismatch for n < 1. Complexity: O(n³).
func RandomUnitary(n int, rng *rand.Rand) (*mat.CDense, error) {
	if n < 1 {
		return nil, fmt.Errorf("%s(%d): %w", opRandom, n, ErrShapeMismatch)
	}
	if rng == nil {
		rng = NewRand(0)
	}

	for {
		u := mat.NewCDense(n, n, nil)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				u.Set(i, j, complex(rng.NormFloat64(), rng.NormFloat64())/math.Sqrt2)
			}
		}
		if orthonormalize(u) {
			return u, nil
		}
	}
}

// orthonormalize runs modified Gram–Schmidt on the columns of u in place.
// It reports false when a column collapses (probability zero for Gaussian
// input).
func orthonormalize(u *mat.CDense) bool {
	n, _ := u.Dims()
	for j := 0; j < n; j++ {
		for k := 0; k < j; k++ {
			var dot complex128
			for i := 0; i < n; i++ {
				dot += cmplx.Conj(u.At(i, k)) * u.At(i, j)
			}
			for i := 0; i < n; i++ {
				u.Set(i, j, u.At(i, j)-dot*u.At(i, k))
			}
		}

		var norm float64
		for i := 0; i < n; i++ {
			a := cmplx.Abs(u.At(i, j))
			norm += a * a
		}
		norm = math.Sqrt(norm)
		if norm < 1e-10 {
			return false
		}
		for i := 0; i < n; i++ {
			u.Set(i, j, u.At(i, j)/complex(norm, 0))
		}
	}

	return true
}
