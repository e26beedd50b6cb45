package drive

import (
	"fmt"

	"github.com/katalvlaran/clements/mesh"
	"github.com/katalvlaran/clements/units"
)

// DecodeBytes splits a captured byte stream into DAC levels.
// len(b) must be a multiple of the device's byte width.
func (e *Encoder) DecodeBytes(b []byte) ([]uint64, error) {
	width := units.ByteWidth(e.dev.Resolution)
	if len(b)%width != 0 {
		return nil, fmt.Errorf("drive: %d bytes is not a multiple of %d: %w", len(b), width, units.ErrDomain)
	}

	levels := make([]uint64, 0, len(b)/width)
	for off := 0; off < len(b); off += width {
		lvl, err := units.BytesToLevel(b[off:off+width], e.dev.Resolution)
		if err != nil {
			return nil, fmt.Errorf("drive: level %d: %w", off/width, err)
		}
		levels = append(levels, lvl)
	}

	return levels, nil
}

// DecodeLevels maps DAC levels back to the phases they induce.
func (e *Encoder) DecodeLevels(levels []uint64) ([]float64, error) {
	phases := make([]float64, len(levels))
	for i, lvl := range levels {
		v, err := units.LevelToVoltage(lvl, e.dev)
		if err != nil {
			return nil, fmt.Errorf("drive: level %d: %w", i, err)
		}
		if phases[i], err = units.VoltageToPhase(v, e.dev); err != nil {
			return nil, fmt.Errorf("drive: level %d: %w", i, err)
		}
	}

	return phases, nil
}

// DecodeGrid rebuilds the n-mode grid a mesh would realise from levels.
//
// Errors: those of DecodeLevels; mesh.ErrShapeMismatch when len(levels)
// is not n(n−1)+n.
func (e *Encoder) DecodeGrid(levels []uint64, n int) (*mesh.Grid, error) {
	phases, err := e.DecodeLevels(levels)
	if err != nil {
		return nil, err
	}
	g, err := mesh.Unflatten(phases, n, e.addressing)
	if err != nil {
		return nil, fmt.Errorf("drive: %w", err)
	}

	return g, nil
}
