// SPDX-License-Identifier: MIT

// Package mesh: functional configuration for the element solver and the
// decomposer. This file defines:
//   - Option / Options (functional options with unexported state),
//   - documented defaults (constants),
//   - WithX constructors that panic on nonsensical values,
//   - gatherOptions, the single place where defaults and setters meet.
//
// Notes:
//   - The solver's starting point (θ₀, φ₀) = (1, 1) is fixed, not an option:
//     identical inputs must always yield identical meshes.
package mesh

import (
	"io"
	"math"

	"github.com/sirupsen/logrus"
)

// Numeric policy defaults.
const (
	// DefaultTolerance is the Euclidean norm below which a nulled entry
	// (real, imaginary) counts as zero.
	DefaultTolerance = 1e-12

	// DefaultMaxIterations caps the Levenberg–Marquardt steps per element.
	DefaultMaxIterations = 200

	// DefaultSingularTolerance is the relative pivot size below which an
	// input matrix is rejected as singular.
	DefaultSingularTolerance = 1e-12
)

// Fixed solver start point, in radians.
const (
	initialTheta = 1.0
	initialPhi   = 1.0
)

const (
	panicToleranceInvalid = "mesh: WithTolerance: tol must be finite and > 0"
	panicMaxIterInvalid   = "mesh: WithMaxIterations: n must be >= 1"
	panicSingularInvalid  = "mesh: WithSingularTolerance: tol must be finite and >= 0"
)

// Option mutates internal options. Safe to apply repeatedly.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	tol         float64
	maxIter     int
	singularTol float64
	log         logrus.FieldLogger
}

// WithTolerance sets the residual norm accepted as a null.
// Panics when tol is not finite and positive.
func WithTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol <= 0 {
		panic(panicToleranceInvalid)
	}

	return func(o *Options) { o.tol = tol }
}

// WithMaxIterations bounds the solver iterations per element.
// Panics when n < 1.
func WithMaxIterations(n int) Option {
	if n < 1 {
		panic(panicMaxIterInvalid)
	}

	return func(o *Options) { o.maxIter = n }
}

// WithSingularTolerance sets the relative pivot threshold of the input
// check. Zero only rejects exactly singular inputs.
func WithSingularTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 {
		panic(panicSingularInvalid)
	}

	return func(o *Options) { o.singularTol = tol }
}

// WithLogger routes decomposition traces to l. A nil logger restores the
// default, which discards everything.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *Options) {
		if l == nil {
			l = discardLogger
		}
		o.log = l
	}
}

// discardLogger is shared by every Options value that has no logger.
var discardLogger = newDiscardLogger()

func newDiscardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return l
}

// gatherOptions applies user setters on top of the documented defaults.
// Last writer wins.
func gatherOptions(user ...Option) Options {
	o := Options{
		tol:         DefaultTolerance,
		maxIter:     DefaultMaxIterations,
		singularTol: DefaultSingularTolerance,
		log:         discardLogger,
	}
	for _, set := range user {
		set(&o)
	}

	return o
}
