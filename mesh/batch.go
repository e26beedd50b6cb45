package mesh

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// DecomposeBatch decomposes independent matrices concurrently with at most
// workers goroutines (workers < 1 means one per matrix). Results keep the
// input order. The first failure cancels the remaining work and is returned
// with the failing index.
//
// Each call to Decompose is pure, so the grids equal those of sequential
// calls with the same options.
func DecomposeBatch(ctx context.Context, us []mat.CMatrix, workers int, opts ...Option) ([]*Grid, error) {
	out := make([]*Grid, len(us))
	if len(us) == 0 {
		return out, nil
	}

	eg, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		eg.SetLimit(workers)
	}
	for i, u := range us {
		i, u := i, u
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			g, err := Decompose(u, opts...)
			if err != nil {
				return fmt.Errorf("%s: matrix %d: %w", opBatch, i, err)
			}
			out[i] = g

			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
