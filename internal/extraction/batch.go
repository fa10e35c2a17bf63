package extraction

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Batch extracts each request, at most Workers at a time, and returns the
// successful results in input order. Failed items are logged and skipped.
func (s *Service) Batch(ctx context.Context, reqs []Request) []Result {
	slots := make([]*Result, len(reqs))

	var g errgroup.Group
	g.SetLimit(s.cfg.Workers)

	for i, req := range reqs {
		g.Go(func() error {
			result, err := s.Extract(ctx, req)
			if err != nil {
				s.logger.Warn(
					"batch item failed",
					"index", i,
					"document_type", req.DocumentType,
					"error", err,
				)
				return nil
			}
			slots[i] = result
			return nil
		})
	}
	g.Wait()

	results := make([]Result, 0, len(reqs))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}

	s.logger.Info("batch complete", "requested", len(reqs), "succeeded", len(results))
	return results
}
