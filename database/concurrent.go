package database

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// FanOut runs lookup once per argument tuple and waits for all of them. At most
// limit lookups are in flight at once; zero or less means no limit. A failed
// lookup never cancels its siblings.
func FanOut(ctx context.Context, limit int, args [][]any, lookup func(ctx context.Context, args []any) ([]Row, error)) []LookupResult {
	results := make([]LookupResult, len(args))
	var group errgroup.Group
	if limit > 0 {
		group.SetLimit(limit)
	}
	for idx, tuple := range args {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[idx] = LookupResult{Err: err}
				return nil
			}
			rows, err := lookup(ctx, tuple)
			results[idx] = LookupResult{
				Success: err == nil,
				Rows:    rows,
				Err:     err,
			}
			return nil
		})
	}
	_ = group.Wait()
	return results
}
