package concurrency

import (
	"context"
	"sync"
)

// ParallelOptions configures a parallel run.
type ParallelOptions struct {
	// MaxWorkers caps the number of concurrent workers.
	MaxWorkers int

	// OnProgress, when set, is called after each item finishes with the
	// number of finished items so far. Calls are serialized.
	OnProgress func(done, total int)
}

func DefaultOptions() ParallelOptions {
	return ParallelOptions{
		MaxWorkers: 8,
	}
}

func (o ParallelOptions) workers(n int) int {
	w := o.MaxWorkers
	if w <= 0 {
		w = DefaultOptions().MaxWorkers
	}
	if w > n {
		w = n
	}
	return w
}

// ProcessParallel runs itemFunc over items with a bounded worker pool.
// Results keep the input order. Items not started because ctx was canceled
// get a zero result and ctx.Err() in the error list.
func ProcessParallel[T any, R any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) (R, error),
) ([]R, []error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	type result struct {
		index int
		value R
		err   error
	}

	jobs := make(chan int, len(items))
	results := make(chan result, len(items))

	var wg sync.WaitGroup
	for w := 0; w < opts.workers(len(items)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					results <- result{index: i, err: err}
					continue
				}
				v, err := itemFunc(ctx, i, items[i])
				results <- result{index: i, value: v, err: err}
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]R, len(items))
	var errs []error
	done := 0
	for res := range results {
		out[res.index] = res.value
		if res.err != nil {
			errs = append(errs, res.err)
		}
		done++
		if opts.OnProgress != nil {
			opts.OnProgress(done, len(items))
		}
	}
	return out, errs
}
