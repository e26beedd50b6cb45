// SPDX-License-Identifier: MIT
// Package units: sentinel error set.
// Every conversion returns one of these sentinels, optionally wrapped with
// the operation name via unitsErrorf. Callers match with errors.Is.

package units

import (
	"errors"
	"fmt"
)

var (
	// ErrDomain is returned when an input lies outside the physical domain
	// of a conversion: amplitude ∉ [0,1], negative phase or voltage, NaN/Inf,
	// or a DAC level that cannot be represented at the given resolution.
	ErrDomain = errors.New("units: value outside conversion domain")

	// ErrBadDevice is returned when device constants are unusable
	// (non-positive resistance, Pπ or Vmax, resolution outside [1, MaxResolution]).
	ErrBadDevice = errors.New("units: invalid device constants")
)

// unitsErrorf tags err with the conversion name, preserving it for errors.Is.
func unitsErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
