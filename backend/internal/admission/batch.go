package admission

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BatchResult pairs a candidate with its admission decision
type BatchResult struct {
	Candidate Candidate `json:"candidate"`
	Decision  Decision  `json:"decision"`
}

// AdmitBatch evaluates candidates with up to workers goroutines. Output
// order matches input order, and rejections never fail the batch; the only
// error path is context cancellation.
func AdmitBatch(ctx context.Context, candidates []Candidate, workers int) ([]BatchResult, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]BatchResult, len(candidates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = BatchResult{Candidate: c, Decision: Admit(c)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
