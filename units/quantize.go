package units

import (
	"encoding/binary"
	"fmt"
	"math"
)

// levelSnap is the distance below which a scaled voltage is treated as
// landing exactly on an integer DAC code. It absorbs the last-ulp error of
// V/Vmax·(2^r−1) so that V == Vmax maps to the top code under truncation.
const levelSnap = 1e-9

// fullScaleSlack is the relative excess over Vmax still read as Vmax, so a
// full-turn phase converted back to volts stays in range.
const fullScaleSlack = 1e-12

// MaxLevel returns 2^resolution − 1. The caller guarantees
// 1 ≤ resolution ≤ MaxResolution.
func MaxLevel(resolution int) uint64 {
	return uint64(1)<<uint(resolution) - 1
}

// ByteWidth returns ⌈resolution/8⌉, the number of bytes per encoded level.
func ByteWidth(resolution int) int {
	return (resolution + 7) / 8
}

// VoltageToLevel quantizes a drive voltage onto the DAC grid:
//
//	level = ⌊V/Vmax · (2^r − 1)⌋   (Truncate)
//	level = round(V/Vmax · (2^r − 1)) (Nearest)
//
// Stage 1 (Validate): device constants, finite non-negative V, V ≤ Vmax.
// Stage 2 (Execute): scale, snap, round per policy.
//
// Errors: ErrBadDevice, ErrDomain.
// Complexity: O(1).
func VoltageToLevel(v float64, d Device) (uint64, error) {
	if err := d.Validate(); err != nil {
		return 0, unitsErrorf(opVoltageToLevel, err)
	}
	if !nonNegativeFinite(v) {
		return 0, unitsErrorf(opVoltageToLevel, ErrDomain)
	}

	ratio := v / d.MaxVoltage
	if ratio > 1+fullScaleSlack {
		return 0, fmt.Errorf("%s: %g V above full scale %g V: %w", opVoltageToLevel, v, d.MaxVoltage, ErrDomain)
	}
	top := float64(MaxLevel(d.Resolution))
	x := math.Min(ratio, 1) * top

	var q float64
	switch d.Rounding {
	case Nearest:
		q = math.Round(x)
	default:
		q = math.Floor(x)
		if r := math.Round(x); math.Abs(x-r) <= levelSnap {
			q = r
		}
	}

	return uint64(q), nil
}

// LevelToVoltage returns the DAC output for a level: Vmax · level / (2^r − 1).
func LevelToVoltage(level uint64, d Device) (float64, error) {
	if err := d.Validate(); err != nil {
		return 0, unitsErrorf(opLevelToVoltage, err)
	}
	top := MaxLevel(d.Resolution)
	if level > top {
		return 0, unitsErrorf(opLevelToVoltage, ErrDomain)
	}

	return d.MaxVoltage * float64(level) / float64(top), nil
}

// LevelToBytes encodes level as ⌈resolution/8⌉ little-endian bytes.
// The returned slice is freshly allocated.
//
// Errors: ErrBadDevice for resolution ∉ [1, MaxResolution];
// ErrDomain when level > 2^resolution − 1.
// Complexity: O(1).
func LevelToBytes(level uint64, resolution int) ([]byte, error) {
	return AppendLevelBytes(nil, level, resolution)
}

// AppendLevelBytes appends the encoding of level to dst and returns the
// extended slice.
func AppendLevelBytes(dst []byte, level uint64, resolution int) ([]byte, error) {
	if resolution < 1 || resolution > MaxResolution {
		return dst, unitsErrorf(opLevelToBytes, ErrBadDevice)
	}
	if level > MaxLevel(resolution) {
		return dst, fmt.Errorf("%s: level %d exceeds %d-bit range: %w", opLevelToBytes, level, resolution, ErrDomain)
	}

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], level)

	return append(dst, buf[:ByteWidth(resolution)]...), nil
}

// BytesToLevel decodes one little-endian level of the given resolution.
// len(b) must equal ByteWidth(resolution).
func BytesToLevel(b []byte, resolution int) (uint64, error) {
	if resolution < 1 || resolution > MaxResolution {
		return 0, unitsErrorf(opBytesToLevel, ErrBadDevice)
	}
	if len(b) != ByteWidth(resolution) {
		return 0, fmt.Errorf("%s: got %d bytes, want %d: %w", opBytesToLevel, len(b), ByteWidth(resolution), ErrDomain)
	}

	var buf [8]byte
	copy(buf[:], b)
	level := binary.LittleEndian.Uint64(buf[:])
	if level > MaxLevel(resolution) {
		return 0, unitsErrorf(opBytesToLevel, ErrDomain)
	}

	return level, nil
}
