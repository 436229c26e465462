package pipeline

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Options configures Run.
type Options struct {
	// Concurrency bounds in-flight fetches. Values below 1 mean sequential.
	Concurrency int

	// Progress receives a counter update after every emitted token. Optional.
	Progress *Progress

	// Clock overrides time.Now for summaries.
	Clock func() time.Time
}

// FetchFunc does the network work for one token.
// Errors become skip reasons unless wrapped with Fatal.
type FetchFunc[T any] func(ctx context.Context, token string) (T, error)

// EmitFunc consumes results strictly in hashlist order, one at a time.
// A returned error aborts the run.
type EmitFunc[T any] func(ctx context.Context, r Result[T]) error

// Run fetches every token with at most opts.Concurrency fetches in flight and
// emits the results in input order.
func Run[T any](ctx context.Context, tokens []string, opts Options, fetch FetchFunc[T], emit EmitFunc[T]) (*Summary, error) {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}

	summary := &Summary{Total: len(tokens), Started: clock()}
	defer func() { summary.Finished = clock() }()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var (
		mu    sync.Mutex
		ready   = make(map[int]Result[T])
		next    int
		stopped bool
	)

	// flush emits consecutive ready results. Caller holds mu.
	// Nothing is emitted once the run has failed.
	flush := func() error {
		for {
			if stopped || gctx.Err() != nil {
				return nil
			}
			r, ok := ready[next]
			if !ok {
				return nil
			}
			delete(ready, next)
			next++

			if r.Skip != nil {
				summary.Skipped = append(summary.Skipped, *r.Skip)
			} else {
				summary.Processed++
			}
			if err := emit(gctx, r); err != nil {
				stopped = true
				return err
			}
			opts.Progress.Advance()
		}
	}

	for i, token := range tokens {
		if gctx.Err() != nil {
			break
		}

		i, token := i, token
		g.Go(func() error {
			value, err := fetch(gctx, token)
			if err != nil {
				if IsFatal(err) {
					mu.Lock()
					stopped = true
					mu.Unlock()
					return err
				}
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
			}

			r := Result[T]{Index: i, Token: token}
			if err != nil {
				r.Skip = toSkipReason(token, err)
			} else {
				r.Value = value
			}

			mu.Lock()
			defer mu.Unlock()
			ready[i] = r
			return flush()
		})
	}

	err := g.Wait()
	opts.Progress.Done()
	if err != nil {
		return summary, err
	}
	return summary, ctx.Err()
}
