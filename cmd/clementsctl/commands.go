package main

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/clements/drive"
	"github.com/katalvlaran/clements/mesh"
)

func newDecomposeCmd(a *app) *cobra.Command {
	var matrixPath, format string

	cmd := &cobra.Command{
		Use:   "decompose",
		Short: "Decompose a unitary and print its mesh program",
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := readMatrix(matrixPath)
			if err != nil {
				return err
			}
			g, err := mesh.Decompose(u, a.cfg.MeshOptions(a.log)...)
			if err != nil {
				return err
			}
			back, err := mesh.Reconstruct(g)
			if err != nil {
				return err
			}

			enc, err := a.encoder()
			if err != nil {
				return err
			}
			prog, err := enc.EncodeGrid(g)
			if err != nil {
				return err
			}

			rep := decomposeReport{
				N:          g.N,
				Addressing: enc.Addressing().String(),
				Elements:   make([]elementReport, 0, len(g.Elements)),
				Alpha:      g.Alpha,
				MaxError:   maxAbsDiff(u, back),
				Program:    newProgramReport(prog),
			}
			for _, e := range g.Elements {
				rep.Elements = append(rep.Elements, elementReport{Row: e.Row, Col: e.Col, Theta: e.Theta, Phi: e.Phi})
			}
			a.log.WithFields(logrus.Fields{"n": g.N, "max_error": rep.MaxError}).Info("decomposed")

			return writeReport(cmd.OutOrStdout(), format, rep)
		},
	}
	cmd.Flags().StringVar(&matrixPath, "matrix", "", "matrix file (YAML or JSON with real/imag)")
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or yaml")
	_ = cmd.MarkFlagRequired("matrix")

	return cmd
}

func newEncodeCmd(a *app) *cobra.Command {
	var (
		values    []float64
		intensity bool
		format    string
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode amplitudes (or intensities) for the data channel",
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc, err := a.encoder()
			if err != nil {
				return err
			}

			var prog *drive.Program
			if intensity {
				prog, err = enc.EncodeIntensities(values)
			} else {
				prog, err = enc.EncodeAmplitudes(values)
			}
			if err != nil {
				return err
			}
			a.log.WithField("values", prog.Len()).Info("encoded")

			return writeReport(cmd.OutOrStdout(), format, newProgramReport(prog))
		},
	}
	cmd.Flags().Float64SliceVar(&values, "values", nil, "comma-separated values in [0, 1]")
	cmd.Flags().BoolVar(&intensity, "intensity", false, "treat values as intensities (square-root first)")
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or yaml")
	_ = cmd.MarkFlagRequired("values")

	return cmd
}

func newVerifyCmd(a *app) *cobra.Command {
	var (
		size, count, workers int
		seed                 int64
		threshold            float64
		format               string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Round-trip Haar-random unitaries through the decomposer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be >= 1, got %d", count)
			}
			if !cmd.Flags().Changed("workers") {
				workers = a.cfg.Mesh.Workers
			}

			us := make([]mat.CMatrix, count)
			for i := range us {
				u, err := mesh.RandomUnitary(size, mesh.NewRand(mesh.DeriveSeed(seed, uint64(i))))
				if err != nil {
					return err
				}
				us[i] = u
			}

			grids, err := mesh.DecomposeBatch(cmd.Context(), us, workers, a.cfg.MeshOptions(a.log)...)
			if err != nil {
				return err
			}

			rep := verifyReport{Size: size, Count: count, Seed: seed}
			for i, g := range grids {
				back, err := mesh.Reconstruct(g)
				if err != nil {
					return err
				}
				rep.MaxError = math.Max(rep.MaxError, maxAbsDiff(us[i], back))
			}
			rep.Passed = rep.MaxError < threshold
			a.log.WithFields(logrus.Fields{
				"size":      size,
				"count":     count,
				"workers":   workers,
				"max_error": rep.MaxError,
			}).Info("verified")

			if err := writeReport(cmd.OutOrStdout(), format, rep); err != nil {
				return err
			}
			if !rep.Passed {
				return fmt.Errorf("max reconstruction error %.3g exceeds %.3g", rep.MaxError, threshold)
			}

			return nil
		},
	}
	cmd.Flags().IntVar(&size, "size", 4, "number of optical modes")
	cmd.Flags().IntVar(&count, "count", 8, "number of random unitaries")
	cmd.Flags().Int64Var(&seed, "seed", 1, "base random seed")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel decompositions (0 = from config)")
	cmd.Flags().Float64Var(&threshold, "max-error", 1e-6, "largest acceptable entry error")
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or yaml")

	return cmd
}

// encoder builds a drive.Encoder from the loaded configuration.
func (a *app) encoder() (*drive.Encoder, error) {
	dev, err := a.cfg.UnitsDevice()
	if err != nil {
		return nil, err
	}
	addr, err := a.cfg.Addressing()
	if err != nil {
		return nil, err
	}

	return drive.NewEncoder(dev, drive.WithAddressing(addr), drive.WithLogger(a.log))
}

func maxAbsDiff(a, b mat.CMatrix) float64 {
	r, c := a.Dims()
	var worst float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			worst = math.Max(worst, cmplx.Abs(a.At(i, j)-b.At(i, j)))
		}
	}

	return worst
}
