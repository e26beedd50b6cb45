// SPDX-License-Identifier: MIT
// Package mesh: sentinel error set.
// All public entry points return these sentinels (possibly wrapped with an
// operation tag). Tests and callers MUST match them via errors.Is.
// Decomposition failures tied to one mesh element are additionally
// reported as *PositionError so callers can recover the element position.

package mesh

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput is returned for empty, non-square, non-finite or
	// singular matrices, and for non-finite grid angles. No work is performed.
	ErrMalformedInput = errors.New("mesh: malformed input matrix")

	// ErrSingular accompanies ErrMalformedInput when the input has a
	// (numerically) zero pivot.
	ErrSingular = errors.New("mesh: singular matrix")

	// ErrNonConvergence is returned when the element solver cannot drive the
	// target entry below tolerance within its iteration budget.
	ErrNonConvergence = errors.New("mesh: element solver did not converge")

	// ErrShapeMismatch is returned when a Grid or phase sequence does not
	// match the triangular occupancy expected for its N.
	ErrShapeMismatch = errors.New("mesh: grid shape mismatch")
)

// Operation tags for uniform wrapping.
const (
	opDecompose   = "Decompose"
	opReconstruct = "Reconstruct"
	opFlatten     = "Flatten"
	opUnflatten   = "Unflatten"
	opSolve       = "SolveElement"
	opValidate    = "Grid.Validate"
	opLayout      = "NewLayout"
	opRandom      = "RandomUnitary"
	opBatch       = "DecomposeBatch"
)

// meshErrorf wraps err with an operation tag; err must be non-nil.
func meshErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// PositionError reports the mesh element at which a decomposition stage failed.
type PositionError struct {
	Stage string // "sweep" or "correction"
	Row   int
	Col   int
	Err   error
}

// Error implements error.
func (e *PositionError) Error() string {
	return fmt.Sprintf("mesh: %s at element (%d,%d): %v", e.Stage, e.Row, e.Col, e.Err)
}

// Unwrap exposes the underlying sentinel to errors.Is.
func (e *PositionError) Unwrap() error { return e.Err }
