package sim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ParallelFor splits [0, n) into at most workers contiguous chunks and runs
// fn on each concurrently. With workers <= 1 it runs inline. The first error
// cancels ctx for the remaining chunks.
func ParallelFor(ctx context.Context, n, workers int, fn func(ctx context.Context, start, end int) error) error {
	if n <= 0 {
		return nil
	}
	if workers <= 1 || n == 1 {
		return fn(ctx, 0, n)
	}
	if workers > n {
		workers = n
	}

	chunkSize := (n + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		s, e := start, end
		g.Go(func() error {
			return fn(gctx, s, e)
		})
	}
	return g.Wait()
}
