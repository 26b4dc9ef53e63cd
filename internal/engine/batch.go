package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// BuildFunc constructs a fresh runner for one seed. Each call must return a
// runner with its own world; runners never share mutable state.
type BuildFunc func(seed uint64) (*Runner, error)

// Result is the outcome of one run in a batch.
type Result struct {
	Seed     uint64
	Runner   *Runner
	Entities int
	Events   int
}

// RunBatch runs one world per seed for months ticks each. With parallel > 1
// the runs execute concurrently, at most parallel at a time; results are
// returned in seed order either way.
func RunBatch(ctx context.Context, seeds []uint64, months, parallel int, build BuildFunc) ([]Result, error) {
	results := make([]Result, len(seeds))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(parallel, 1))
	for i, seed := range seeds {
		g.Go(func() error {
			r, err := build(seed)
			if err != nil {
				return fmt.Errorf("build run %d (seed %d): %w", i, seed, err)
			}
			if err := r.Run(ctx, months); err != nil {
				return fmt.Errorf("run %d (seed %d): %w", i, seed, err)
			}
			results[i] = Result{
				Seed:     seed,
				Runner:   r,
				Entities: r.World.Len(),
				Events:   len(r.World.Events()),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
