package sim

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// RunAll runs independent simulators concurrently. Each simulator owns its
// world, store and pipeline, so nothing is shared between goroutines.
func RunAll(ctx context.Context, sims []*Simulator) ([]*Result, error) {
	results := make([]*Result, len(sims))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, s := range sims {
		g.Go(func() error {
			res, err := s.Run(ctx)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Ensemble replays one scenario under different jitter seeds.
type Ensemble struct {
	build     func(seed int64) (*Simulator, error)
	numRuns   int
	seedStart int64
}

func NewEnsemble(build func(seed int64) (*Simulator, error), numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	sims := make([]*Simulator, e.numRuns)
	for i := range sims {
		s, err := e.build(e.seedStart + int64(i))
		if err != nil {
			return nil, err
		}
		sims[i] = s
	}
	return RunAll(ctx, sims)
}
