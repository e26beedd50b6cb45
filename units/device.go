package units

import (
	"fmt"
	"math"
)

// Documented defaults, taken from the photonic tensor core tutorial setup:
// a 1 kΩ heater needing 1 mW for a π shift, driven by an 8-bit DAC whose
// full scale produces a 2π shift.
const (
	// DefaultResistance is the heater resistance R in ohms.
	DefaultResistance = 1000.0

	// DefaultPPi is the electrical power Pπ (watts) that induces a π phase shift.
	DefaultPPi = 1e-3

	// DefaultResolution is the DAC resolution in bits.
	DefaultResolution = 8

	// MaxResolution bounds the DAC resolution so every level fits a uint32
	// and is exactly representable as float64.
	MaxResolution = 32
)

// Rounding selects how a voltage is mapped onto the integer DAC grid.
type Rounding int

const (
	// Truncate rounds toward zero, as the reference device pipeline does.
	Truncate Rounding = iota

	// Nearest rounds half away from zero.
	Nearest
)

// String implements fmt.Stringer.
func (r Rounding) String() string {
	switch r {
	case Truncate:
		return "truncate"
	case Nearest:
		return "nearest"
	default:
		return fmt.Sprintf("Rounding(%d)", int(r))
	}
}

// ParseRounding maps "truncate"/"nearest" to a Rounding.
func ParseRounding(s string) (Rounding, error) {
	switch s {
	case "", "truncate":
		return Truncate, nil
	case "nearest":
		return Nearest, nil
	default:
		return Truncate, fmt.Errorf("ParseRounding(%q): %w", s, ErrBadDevice)
	}
}

// Device bundles the constants of one thermo-optic channel and its DAC.
//
// Fields:
//   - Resistance — heater resistance R (Ω), > 0.
//   - PPi        — power for a π phase shift (W), > 0.
//   - Resolution — DAC bits, 1..MaxResolution.
//   - MaxVoltage — DAC full-scale output (V), > 0.
//   - Rounding   — voltage → level quantization policy.
type Device struct {
	Resistance float64
	PPi        float64
	Resolution int
	MaxVoltage float64
	Rounding   Rounding
}

// DefaultDevice returns the documented defaults. MaxVoltage is chosen so
// that the DAC full scale corresponds to a 2π phase shift: √(2·R·Pπ).
func DefaultDevice() Device {
	return Device{
		Resistance: DefaultResistance,
		PPi:        DefaultPPi,
		Resolution: DefaultResolution,
		MaxVoltage: FullTurnVoltage(DefaultResistance, DefaultPPi),
		Rounding:   Truncate,
	}
}

// FullTurnVoltage returns the drive voltage producing a 2π phase shift on a
// heater with resistance r and π-power pPi.
func FullTurnVoltage(r, pPi float64) float64 {
	return math.Sqrt(2 * r * pPi)
}

// Validate reports ErrBadDevice when any constant is unusable.
// Complexity: O(1).
func (d Device) Validate() error {
	if !positiveFinite(d.Resistance) {
		return fmt.Errorf("Device.Validate: resistance %g: %w", d.Resistance, ErrBadDevice)
	}
	if !positiveFinite(d.PPi) {
		return fmt.Errorf("Device.Validate: p_pi %g: %w", d.PPi, ErrBadDevice)
	}
	if !positiveFinite(d.MaxVoltage) {
		return fmt.Errorf("Device.Validate: max voltage %g: %w", d.MaxVoltage, ErrBadDevice)
	}
	if d.Resolution < 1 || d.Resolution > MaxResolution {
		return fmt.Errorf("Device.Validate: resolution %d: %w", d.Resolution, ErrBadDevice)
	}
	if d.Rounding != Truncate && d.Rounding != Nearest {
		return fmt.Errorf("Device.Validate: %v: %w", d.Rounding, ErrBadDevice)
	}

	return nil
}

func positiveFinite(x float64) bool {
	return x > 0 && !math.IsInf(x, 0) && !math.IsNaN(x)
}
