package bivector

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/arraygo/core"
)

// InterpolateAll resamples every target against the same reference,
// fanning the work out over parallelism goroutines (NumCPU when
// parallelism <= 0). The reference is only read, so sharing it across
// workers is safe; each target is written by exactly one worker.
//
// The first failure cancels the remaining work and is returned. Targets
// already processed, or in flight when the failure occurs, may have been
// written.
func InterpolateAll(ctx context.Context, reference *Bivector, targets []*Bivector, parallelism int) error {
	if reference == nil {
		return fmt.Errorf("%w: reference", core.ErrNullInput)
	}
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for _, target := range targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return InterpolateLinear(target, reference)
		})
	}
	return g.Wait()
}
