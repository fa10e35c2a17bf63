package knowledge

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/lading/pkg/pagination"
)

type memoryStore struct {
	mu       sync.RWMutex
	examples map[uuid.UUID]Example
}

// NewMemoryStore creates a Store held in process memory. It backs the CLI and
// tests, where no database is configured.
func NewMemoryStore() Store {
	return &memoryStore{examples: make(map[uuid.UUID]Example)}
}

func (s *memoryStore) snapshot() []Example {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Collect(maps.Values(s.examples))
}

func (s *memoryStore) FewShot(ctx context.Context, c Criteria) ([]Example, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return selectExamples(s.snapshot(), c), nil
}

func (s *memoryStore) Insert(ctx context.Context, e Example) (*Example, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.examples[e.ID]; ok {
		return nil, ErrDuplicate
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	s.examples[e.ID] = e
	return &e, nil
}

func (s *memoryStore) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.examples[id]
	if !ok {
		return ErrNotFound
	}
	e.UsageCount++
	s.examples[id] = e
	return nil
}

func (s *memoryStore) Stale(ctx context.Context, minConfidence float64, cutoff time.Time) ([]uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	for _, e := range s.snapshot() {
		if !e.Validated || e.ConfidenceScore < minConfidence || e.ValidatedDate.Before(cutoff) {
			ids = append(ids, e.ID)
		}
	}
	return ids, nil
}

func (s *memoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.examples[id]; !ok {
		return ErrNotFound
	}
	delete(s.examples, id)
	return nil
}

func (s *memoryStore) Find(ctx context.Context, id uuid.UUID) (*Example, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.examples[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (s *memoryStore) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Example], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var search string
	if page.Search != nil {
		search = strings.ToLower(*page.Search)
	}

	var matched []Example
	for _, e := range s.snapshot() {
		if !filters.match(e) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(e.DocumentSnippet), search) &&
			!strings.Contains(strings.ToLower(e.Carrier), search) {
			continue
		}
		matched = append(matched, e)
	}

	slices.SortFunc(matched, func(a, b Example) int {
		return cmp.Or(
			b.CreatedAt.Compare(a.CreatedAt),
			strings.Compare(a.ID.String(), b.ID.String()),
		)
	})

	result := pagination.Slice(matched, page)
	return &result, nil
}

func (s *memoryStore) Stats(ctx context.Context) (*Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats := &Stats{
		ByDocumentType: make(map[string]int),
		ByCarrier:      make(map[string]int),
	}

	var sum float64
	for _, e := range s.snapshot() {
		stats.Total++
		if e.Validated {
			stats.Validated++
		}
		stats.ByDocumentType[string(e.DocumentType)]++
		stats.ByCarrier[e.Carrier]++
		sum += e.ConfidenceScore
	}

	if stats.Total > 0 {
		stats.AverageConfidence = sum / float64(stats.Total)
	}
	return stats, nil
}
