// SPDX-License-Identifier: MIT

package mesh

// White-box bridge for mesh_test: exposes the decomposition stages and a few
// private helpers without widening the production API.

import "gonum.org/v1/gonum/mat"

var (
	ExportedWrap          = wrap
	ExportedValidateInput = validateInput
)

// SweepStage runs validation and the nulling sweep only. It returns the
// working matrix and the number of left elements awaiting correction.
func SweepStage(u mat.CMatrix, opts ...Option) (*mat.CDense, int, error) {
	o := gatherOptions(opts...)
	w, err := validateInput(u, o.singularTol)
	if err != nil {
		return nil, 0, err
	}
	s := newSweep(w, o)
	if err = s.null(); err != nil {
		return nil, 0, err
	}

	return s.w, len(s.lefts), nil
}

// CorrectedStage runs the sweep and the correction pass and returns the
// final working matrix.
func CorrectedStage(u mat.CMatrix, opts ...Option) (*mat.CDense, error) {
	o := gatherOptions(opts...)
	w, err := validateInput(u, o.singularTol)
	if err != nil {
		return nil, err
	}
	s := newSweep(w, o)
	if err = s.null(); err != nil {
		return nil, err
	}
	if err = s.canonicalize(); err != nil {
		return nil, err
	}

	return s.w, nil
}
