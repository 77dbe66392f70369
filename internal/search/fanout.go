package search

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Result carries one query's outcome. Results are returned in
// query-submission order regardless of completion order, and each result
// keeps its originating query so callers retain positional correspondence.
type Result[T any] struct {
	Query string
	Hits  []T
	Err   error
}

// FanOut dispatches fn for every query concurrently with bounded
// parallelism and joins the individually-captured results. One query's
// failure never fails the batch and never cancels its siblings; each call
// runs under its own timeout.
func FanOut[T any](ctx context.Context, queries []string, workers int, perCallTimeout time.Duration, fn func(ctx context.Context, query string) ([]T, error)) []Result[T] {
	if len(queries) == 0 {
		return nil
	}
	if workers <= 0 || workers > len(queries) {
		workers = len(queries)
	}

	results := make([]Result[T], len(queries))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, q := range queries {
		g.Go(func() error {
			callCtx := ctx
			if perCallTimeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(ctx, perCallTimeout)
				defer cancel()
			}
			hits, err := fn(callCtx, q)
			results[i] = Result[T]{Query: q, Hits: hits, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
