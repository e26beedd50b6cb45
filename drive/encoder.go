package drive

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/clements/mesh"
	"github.com/katalvlaran/clements/units"
)

// Program is one encoded batch. All four slices are index-aligned except
// Bytes, which holds ByteWidth(resolution) bytes per level.
type Program struct {
	Phases   []float64 `json:"phases" yaml:"phases"`
	Voltages []float64 `json:"voltages" yaml:"voltages"`
	Levels   []uint64  `json:"levels" yaml:"levels"`
	Bytes    []byte    `json:"bytes" yaml:"bytes"`
}

// Len returns the number of encoded values.
func (p *Program) Len() int { return len(p.Levels) }

// Encoder converts phases to voltages, DAC levels and bytes for one device.
// It holds no mutable state and is safe for concurrent use.
type Encoder struct {
	dev        units.Device
	addressing mesh.Addressing
	log        logrus.FieldLogger
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithAddressing selects how mixing angles are flattened (default HeaterPhase).
func WithAddressing(a mesh.Addressing) Option {
	return func(e *Encoder) { e.addressing = a }
}

// WithLogger attaches a logger; nil keeps the silent default.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Encoder) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEncoder validates dev and returns an Encoder bound to it.
func NewEncoder(dev units.Device, opts ...Option) (*Encoder, error) {
	if err := dev.Validate(); err != nil {
		return nil, fmt.Errorf("drive: %w", err)
	}
	e := &Encoder{dev: dev, addressing: mesh.HeaterPhase, log: silent}
	for _, set := range opts {
		set(e)
	}
	if e.addressing != mesh.HeaterPhase && e.addressing != mesh.HalfAngle {
		return nil, fmt.Errorf("drive: %v: %w", e.addressing, mesh.ErrMalformedInput)
	}

	return e, nil
}

// Device returns the bound device constants.
func (e *Encoder) Device() units.Device { return e.dev }

// Addressing returns the flattening mode used by EncodeGrid and DecodeGrid.
func (e *Encoder) Addressing() mesh.Addressing { return e.addressing }

// EncodeGrid flattens g in wiring order and encodes every phase.
func (e *Encoder) EncodeGrid(g *mesh.Grid) (*Program, error) {
	phases, err := mesh.Flatten(g, e.addressing)
	if err != nil {
		return nil, fmt.Errorf("drive: %w", err)
	}

	return e.EncodePhases(phases)
}

// EncodePhases encodes phases (radians, ≥ 0) through voltage and level.
//
// Errors: units.ErrDomain for a negative or non-finite phase, or one whose
// voltage exceeds the DAC full scale; the failing index is reported.
// Complexity: O(len(phases)).
func (e *Encoder) EncodePhases(phases []float64) (*Program, error) {
	width := units.ByteWidth(e.dev.Resolution)
	p := &Program{
		Phases:   make([]float64, len(phases)),
		Voltages: make([]float64, len(phases)),
		Levels:   make([]uint64, len(phases)),
		Bytes:    make([]byte, 0, width*len(phases)),
	}
	copy(p.Phases, phases)

	for i, ph := range phases {
		v, err := units.PhaseToVoltage(ph, e.dev)
		if err != nil {
			return nil, fmt.Errorf("drive: phase %d: %w", i, err)
		}
		lvl, err := units.VoltageToLevel(v, e.dev)
		if err != nil {
			return nil, fmt.Errorf("drive: phase %d: %w", i, err)
		}
		if p.Bytes, err = units.AppendLevelBytes(p.Bytes, lvl, e.dev.Resolution); err != nil {
			return nil, fmt.Errorf("drive: phase %d: %w", i, err)
		}
		p.Voltages[i] = v
		p.Levels[i] = lvl
	}
	e.log.WithFields(logrus.Fields{
		"values":     len(phases),
		"bytes":      len(p.Bytes),
		"resolution": e.dev.Resolution,
	}).Debug("program encoded")

	return p, nil
}

// EncodeAmplitudes encodes normalized amplitudes a ∈ [0, 1] as modulator
// phases arccos(a).
func (e *Encoder) EncodeAmplitudes(amplitudes []float64) (*Program, error) {
	phases := make([]float64, len(amplitudes))
	for i, a := range amplitudes {
		ph, err := units.AmplitudeToPhase(a)
		if err != nil {
			return nil, fmt.Errorf("drive: amplitude %d: %w", i, err)
		}
		phases[i] = ph
	}

	return e.EncodePhases(phases)
}

// EncodeIntensities encodes intensities I ∈ [0, 1] via the amplitude √I.
func (e *Encoder) EncodeIntensities(intensities []float64) (*Program, error) {
	amps := make([]float64, len(intensities))
	for i, x := range intensities {
		a, err := units.IntensityToAmplitude(x)
		if err != nil {
			return nil, fmt.Errorf("drive: intensity %d: %w", i, err)
		}
		amps[i] = a
	}

	return e.EncodeAmplitudes(amps)
}

// silent is the shared default logger; it discards everything.
var silent = newSilentLogger()

func newSilentLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return l
}
