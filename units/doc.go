// Package units converts between the physical quantities used to program
// an optical mesh: normalized amplitudes, optical phases, heater drive
// voltages, DAC levels and the little-endian byte images of those levels.
//
// 🚀 What is inside?
//
//	• amplitude ↔ phase      — amplitude modulator, phase = arccos(a)
//	• phase ↔ voltage        — thermo-optic shifter, φ = V²·π / (R·Pπ)
//	• voltage ↔ DAC level    — level = ⌊V·(2^r − 1) / Vmax⌋ (or nearest)
//	• level ↔ bytes          — ⌈r/8⌉ bytes, little-endian, no sign extension
//
// All functions are pure and deterministic. Out-of-range inputs are never
// clamped or wrapped: they fail with ErrDomain so that a misconfigured
// device is noticed upstream.
//
// ⚙️ Usage:
//
//	dev := units.DefaultDevice()
//	v, err := units.PhaseToVoltage(math.Pi/2, dev)
//	lvl, err := units.VoltageToLevel(v, dev)
//	raw, err := units.LevelToBytes(lvl, dev.Resolution)
package units
