package openai

import (
	"context"
	"sync"

	"github.com/haekalrfd/readiness-ai/internal/domain/analysis"
)

type itemOutcome struct {
	item   analysis.Item
	result *analysis.Result
	err    error
}

type analyzeFn func(context.Context, analysis.Item) (*analysis.Result, error)

// runBatch invokes fn once per item over at most workers goroutines.
// There is no shared mutable state beyond the collection channel, and the
// returned slice follows completion order.
func runBatch(ctx context.Context, items []analysis.Item, workers int, fn analyzeFn) []itemOutcome {
	if workers <= 1 {
		out := make([]itemOutcome, 0, len(items))
		for _, item := range items {
			if ctx.Err() != nil {
				break
			}
			res, err := fn(ctx, item)
			out = append(out, itemOutcome{item: item, result: res, err: err})
		}
		return out
	}
	if workers > len(items) {
		workers = len(items)
	}

	feed := make(chan analysis.Item)
	results := make(chan itemOutcome, len(items))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range feed {
				res, err := fn(ctx, item)
				results <- itemOutcome{item: item, result: res, err: err}
			}
		}()
	}

	go func() {
		defer close(feed)
		for _, item := range items {
			select {
			case feed <- item:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var out []itemOutcome
	for o := range results {
		out = append(out, o)
	}
	return out
}
