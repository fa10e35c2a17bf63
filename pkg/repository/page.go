package repository

import (
	"context"
	"fmt"

	"github.com/JaimeStill/lading/pkg/pagination"
	"github.com/JaimeStill/lading/pkg/query"
)

// Page counts the rows qb matches, then scans the requested page of them.
// The request's sort overrides the builder's default order. noun names the
// entity in wrapped errors.
func Page[T any](
	ctx context.Context,
	q Querier,
	qb *query.Builder,
	page pagination.PageRequest,
	noun string,
	scan ScanFunc[T],
) (*pagination.PageResult[T], error) {
	qb.OrderByFields(page.Sort)

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := q.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count %s: %w", noun, err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := QueryMany(ctx, q, pageSQL, pageArgs, scan)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", noun, err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}
