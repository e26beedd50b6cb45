package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/clements/drive"
	"github.com/katalvlaran/clements/mesh"
)

// matrixFile is the on-disk form of a complex matrix. JSON input parses too,
// since JSON is a subset of YAML.
type matrixFile struct {
	Real [][]float64 `yaml:"real" json:"real"`
	Imag [][]float64 `yaml:"imag" json:"imag"`
}

// readMatrix loads a rectangular complex matrix. Squareness and the rest of
// the input checks are left to mesh.Decompose.
func readMatrix(path string) (*mat.CDense, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return parseMatrix(raw)
}

func parseMatrix(raw []byte) (*mat.CDense, error) {
	var f matrixFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("matrix: %w", err)
	}
	rows := len(f.Real)
	if rows == 0 || len(f.Real[0]) == 0 {
		return nil, fmt.Errorf("matrix: empty real part: %w", mesh.ErrMalformedInput)
	}
	cols := len(f.Real[0])
	if f.Imag != nil && len(f.Imag) != rows {
		return nil, fmt.Errorf("matrix: imag has %d rows, real has %d: %w", len(f.Imag), rows, mesh.ErrMalformedInput)
	}

	m := mat.NewCDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		if len(f.Real[i]) != cols {
			return nil, fmt.Errorf("matrix: ragged row %d: %w", i, mesh.ErrMalformedInput)
		}
		if f.Imag != nil && len(f.Imag[i]) != cols {
			return nil, fmt.Errorf("matrix: ragged imag row %d: %w", i, mesh.ErrMalformedInput)
		}
		for j := 0; j < cols; j++ {
			var im float64
			if f.Imag != nil {
				im = f.Imag[i][j]
			}
			m.Set(i, j, complex(f.Real[i][j], im))
		}
	}

	return m, nil
}

type elementReport struct {
	Row   int     `json:"row" yaml:"row"`
	Col   int     `json:"col" yaml:"col"`
	Theta float64 `json:"theta" yaml:"theta"`
	Phi   float64 `json:"phi" yaml:"phi"`
}

type programReport struct {
	Phases   []float64 `json:"phases" yaml:"phases"`
	Voltages []float64 `json:"voltages" yaml:"voltages"`
	Levels   []uint64  `json:"levels" yaml:"levels"`
	Bytes    string    `json:"bytes_hex" yaml:"bytes_hex"`
}

func newProgramReport(p *drive.Program) programReport {
	return programReport{
		Phases:   p.Phases,
		Voltages: p.Voltages,
		Levels:   p.Levels,
		Bytes:    hex.EncodeToString(p.Bytes),
	}
}

type decomposeReport struct {
	N          int             `json:"n" yaml:"n"`
	Addressing string          `json:"addressing" yaml:"addressing"`
	Elements   []elementReport `json:"elements" yaml:"elements"`
	Alpha      []float64       `json:"alpha" yaml:"alpha"`
	MaxError   float64         `json:"max_reconstruction_error" yaml:"max_reconstruction_error"`
	Program    programReport   `json:"program" yaml:"program"`
}

type verifyReport struct {
	Size     int     `json:"size" yaml:"size"`
	Count    int     `json:"count" yaml:"count"`
	Seed     int64   `json:"seed" yaml:"seed"`
	MaxError float64 `json:"max_reconstruction_error" yaml:"max_reconstruction_error"`
	Passed   bool    `json:"passed" yaml:"passed"`
}

// writeReport renders v as indented JSON or YAML.
func writeReport(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}
