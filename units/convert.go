package units

import (
	"math"
)

// Operation tags used when wrapping sentinels.
const (
	opAmplitudeToPhase     = "AmplitudeToPhase"
	opIntensityToAmplitude = "IntensityToAmplitude"
	opPhaseToVoltage       = "PhaseToVoltage"
	opVoltageToPhase       = "VoltageToPhase"
	opVoltageToLevel       = "VoltageToLevel"
	opLevelToVoltage       = "LevelToVoltage"
	opLevelToBytes         = "LevelToBytes"
	opBytesToLevel         = "BytesToLevel"
)

// AmplitudeToPhase returns the modulator phase arccos(a) for a normalized
// amplitude a ∈ [0, 1]. arccos(1) = 0 and arccos(0) = π/2.
//
// Errors: ErrDomain when a is NaN or outside [0, 1].
// Complexity: O(1).
func AmplitudeToPhase(a float64) (float64, error) {
	if math.IsNaN(a) || a < 0 || a > 1 {
		return 0, unitsErrorf(opAmplitudeToPhase, ErrDomain)
	}

	return math.Acos(a), nil
}

// PhaseToAmplitude is the inverse of AmplitudeToPhase: cos(phase).
func PhaseToAmplitude(phase float64) float64 {
	return math.Cos(phase)
}

// IntensityToAmplitude maps an optical intensity I ∈ [0, 1] to the field
// amplitude √I that the modulator must produce.
func IntensityToAmplitude(i float64) (float64, error) {
	if math.IsNaN(i) || i < 0 || i > 1 {
		return 0, unitsErrorf(opIntensityToAmplitude, ErrDomain)
	}

	return math.Sqrt(i), nil
}

// PhaseToVoltage returns the heater voltage producing the given phase:
//
//	V = √(phase · R · Pπ / π)
//
// since the induced phase is proportional to dissipated power V²/R.
//
// Errors: ErrBadDevice for unusable constants; ErrDomain for a negative or
// non-finite phase.
// Complexity: O(1).
func PhaseToVoltage(phase float64, d Device) (float64, error) {
	if err := d.Validate(); err != nil {
		return 0, unitsErrorf(opPhaseToVoltage, err)
	}
	if !nonNegativeFinite(phase) {
		return 0, unitsErrorf(opPhaseToVoltage, ErrDomain)
	}

	return math.Sqrt(phase * d.Resistance * d.PPi / math.Pi), nil
}

// VoltageToPhase is the exact inverse of PhaseToVoltage: V²·π / (R·Pπ).
func VoltageToPhase(v float64, d Device) (float64, error) {
	if err := d.Validate(); err != nil {
		return 0, unitsErrorf(opVoltageToPhase, err)
	}
	if !nonNegativeFinite(v) {
		return 0, unitsErrorf(opVoltageToPhase, ErrDomain)
	}

	return v * v * math.Pi / (d.Resistance * d.PPi), nil
}

// AmplitudeToVoltage chains AmplitudeToPhase and PhaseToVoltage.
func AmplitudeToVoltage(a float64, d Device) (float64, error) {
	phase, err := AmplitudeToPhase(a)
	if err != nil {
		return 0, err
	}

	return PhaseToVoltage(phase, d)
}

// VoltageToIntensity models the amplitude modulator seen from the detector:
// I = cos²(V²·π / (R·Pπ)).
func VoltageToIntensity(v float64, d Device) (float64, error) {
	phase, err := VoltageToPhase(v, d)
	if err != nil {
		return 0, err
	}
	c := math.Cos(phase)

	return c * c, nil
}

func nonNegativeFinite(x float64) bool {
	return x >= 0 && !math.IsInf(x, 0) && !math.IsNaN(x)
}
