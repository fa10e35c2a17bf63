package extraction

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ExtractWithRetry runs up to MaxRetries attempts. It returns the first
// result at or above EarlyReturnConfidence; otherwise the last successful
// result, however low its confidence. An error is returned only when every
// attempt failed. Failed attempts wait RetryDelay before the next one.
// Low-confidence attempts widen the few-shot set when an ExampleSource is
// configured.
func (s *Service) ExtractWithRetry(ctx context.Context, req Request) (*Result, error) {
	var (
		last    *Result
		lastErr error
	)

	attempts := s.cfg.MaxRetries
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := s.Extract(ctx, req)
		if err == nil {
			result.Metadata.Attempts = attempt
			if result.ConfidenceScore >= EarlyReturnConfidence {
				return result, nil
			}

			last = result
			s.logger.Info(
				"low confidence extraction",
				"attempt", attempt,
				"confidence", result.ConfidenceScore,
				"document_type", req.DocumentType,
			)
			if attempt < attempts {
				req = s.widen(ctx, req)
			}
			continue
		}

		lastErr = err
		if errors.Is(err, ErrInvalidRequest) {
			break
		}
		s.logger.Warn("extraction attempt failed", "attempt", attempt, "error", err)

		if attempt < attempts {
			if err := s.sleep(ctx, s.cfg.RetryDelayDuration()); err != nil {
				lastErr = err
				break
			}
		}
	}

	if last != nil {
		return last, nil
	}
	return nil, fmt.Errorf("extraction failed after %d attempts: %w", attempts, lastErr)
}

// widen asks the example source for more examples than the request holds.
func (s *Service) widen(ctx context.Context, req Request) Request {
	if s.rt.Examples == nil {
		return req
	}

	limit := min(len(req.Examples)+s.cfg.RetryExamples, s.cfg.MaxExamples)
	if limit <= len(req.Examples) {
		return req
	}

	more := s.rt.Examples.FewShotExamples(ctx, req.DocumentType, req.Carrier, limit)
	if len(more) <= len(req.Examples) {
		return req
	}

	s.logger.Debug("widened few-shot examples", "from", len(req.Examples), "to", len(more))
	req.Examples = more
	return req
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
