package drive_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/clements/drive"
	"github.com/katalvlaran/clements/mesh"
	"github.com/katalvlaran/clements/units"
)

func newEncoder(t *testing.T, opts ...drive.Option) *drive.Encoder {
	t.Helper()
	enc, err := drive.NewEncoder(units.DefaultDevice(), opts...)
	require.NoError(t, err)

	return enc
}

// TestEncodeAmplitudes_Endpoints checks a=1 → level 0 and a=0 → half scale.
func TestEncodeAmplitudes_Endpoints(t *testing.T) {
	enc := newEncoder(t)

	p, err := enc.EncodeAmplitudes([]float64{1, 0})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, math.Pi / 2}, p.Phases, 1e-15)
	assert.InDelta(t, 0, p.Voltages[0], 1e-15)
	assert.InDelta(t, math.Sqrt(0.5), p.Voltages[1], 1e-12, "V = √(R·Pπ/2)")
	assert.Equal(t, []uint64{0, 127}, p.Levels)
	assert.Equal(t, []byte{0, 127}, p.Bytes)
	assert.Equal(t, 2, p.Len())
}

// TestEncodePhases_FullScale maps 2π to the top code and rejects more.
func TestEncodePhases_FullScale(t *testing.T) {
	enc := newEncoder(t)

	p, err := enc.EncodePhases([]float64{2 * math.Pi})
	require.NoError(t, err)
	assert.Equal(t, []uint64{255}, p.Levels)
	assert.Equal(t, []byte{255}, p.Bytes)

	_, err = enc.EncodePhases([]float64{0, 2.5 * math.Pi})
	assert.ErrorIs(t, err, units.ErrDomain)
	assert.Contains(t, err.Error(), "phase 1")

	_, err = enc.EncodePhases([]float64{-0.1})
	assert.ErrorIs(t, err, units.ErrDomain)
}

func TestEncodeIntensities(t *testing.T) {
	enc := newEncoder(t)

	fromIntensity, err := enc.EncodeIntensities([]float64{0.25, 1, 0})
	require.NoError(t, err)
	fromAmplitude, err := enc.EncodeAmplitudes([]float64{0.5, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, fromAmplitude, fromIntensity)

	_, err = enc.EncodeIntensities([]float64{1.5})
	assert.ErrorIs(t, err, units.ErrDomain)
	_, err = enc.EncodeAmplitudes([]float64{-0.5})
	assert.ErrorIs(t, err, units.ErrDomain)
}

// TestEncode_FreshPrograms verifies that calls never share or accumulate state.
func TestEncode_FreshPrograms(t *testing.T) {
	enc := newEncoder(t)
	in := []float64{0.5, 1.0}

	a, err := enc.EncodePhases(in)
	require.NoError(t, err)
	b, err := enc.EncodePhases(in)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, b.Bytes, 2)

	a.Levels[0] = 99
	a.Phases[0] = 9
	assert.NotEqual(t, a.Levels[0], b.Levels[0])
	assert.Equal(t, 0.5, in[0], "input slice is copied")
}

func TestEncode_WideResolution(t *testing.T) {
	dev := units.DefaultDevice()
	dev.Resolution = 12
	enc, err := drive.NewEncoder(dev)
	require.NoError(t, err)

	p, err := enc.EncodePhases([]float64{2 * math.Pi, 0})
	require.NoError(t, err)
	assert.Equal(t, []uint64{4095, 0}, p.Levels)
	assert.Equal(t, []byte{0xff, 0x0f, 0, 0}, p.Bytes)

	levels, err := enc.DecodeBytes(p.Bytes)
	require.NoError(t, err)
	assert.Equal(t, p.Levels, levels)

	_, err = enc.DecodeBytes([]byte{1, 2, 3})
	assert.ErrorIs(t, err, units.ErrDomain)
	_, err = enc.DecodeBytes([]byte{0xff, 0xff})
	assert.ErrorIs(t, err, units.ErrDomain, "level above 12-bit range")
}

func TestNewEncoder_Invalid(t *testing.T) {
	dev := units.DefaultDevice()
	dev.PPi = 0
	_, err := drive.NewEncoder(dev)
	assert.ErrorIs(t, err, units.ErrBadDevice)

	_, err = drive.NewEncoder(units.DefaultDevice(), drive.WithAddressing(mesh.Addressing(5)))
	assert.ErrorIs(t, err, mesh.ErrMalformedInput)

	enc := newEncoder(t, drive.WithAddressing(mesh.HalfAngle), drive.WithLogger(nil))
	assert.Equal(t, mesh.HalfAngle, enc.Addressing())
	assert.Equal(t, units.DefaultDevice(), enc.Device())
}

// TestHardwareLoop encodes a decomposed unitary at 16 bits, decodes the
// levels into a grid and reconstructs the matrix the hardware would realise.
func TestHardwareLoop(t *testing.T) {
	u, err := mesh.RandomUnitary(4, mesh.NewRand(5))
	require.NoError(t, err)
	g, err := mesh.Decompose(u)
	require.NoError(t, err)

	dev := units.DefaultDevice()
	dev.Resolution = 16
	dev.Rounding = units.Nearest
	for _, addr := range []mesh.Addressing{mesh.HeaterPhase, mesh.HalfAngle} {
		enc, err := drive.NewEncoder(dev, drive.WithAddressing(addr))
		require.NoError(t, err)

		p, err := enc.EncodeGrid(g)
		require.NoError(t, err)
		require.Len(t, p.Levels, 4*3+4)
		require.Len(t, p.Bytes, 2*(4*3+4))

		levels, err := enc.DecodeBytes(p.Bytes)
		require.NoError(t, err)
		back, err := enc.DecodeGrid(levels, 4)
		require.NoError(t, err)
		realised, err := mesh.Reconstruct(back)
		require.NoError(t, err)

		var worst float64
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				worst = math.Max(worst, cmplx.Abs(u.At(i, j)-realised.At(i, j)))
			}
		}
		assert.Less(t, worst, 1e-2, "%v", addr)
	}
}

func TestDecode_Errors(t *testing.T) {
	enc := newEncoder(t)

	_, err := enc.DecodeLevels([]uint64{256})
	assert.ErrorIs(t, err, units.ErrDomain)

	_, err = enc.DecodeGrid([]uint64{0, 0, 0}, 3)
	assert.ErrorIs(t, err, mesh.ErrShapeMismatch)

	_, err = enc.EncodeGrid(&mesh.Grid{N: 2})
	assert.ErrorIs(t, err, mesh.ErrShapeMismatch)

	phases, err := enc.DecodeLevels([]uint64{0, 255})
	require.NoError(t, err)
	assert.InDelta(t, 0, phases[0], 1e-15)
	assert.InDelta(t, 2*math.Pi, phases[1], 1e-12)
}
