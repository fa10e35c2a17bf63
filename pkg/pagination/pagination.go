// Package pagination carries page requests from query strings and JSON
// bodies to repositories and shapes the page results they return.
package pagination

import (
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/JaimeStill/lading/pkg/query"
)

// Query parameter names read by PageRequestFromQuery.
const (
	ParamPage     = "page"
	ParamPageSize = "page_size"
	ParamSearch   = "search"
	ParamSort     = "sort"
)

// SortFields accepts either "filename,-uploaded_at" or an array of
// SortField objects when unmarshaled.
type SortFields []query.SortField

func (s *SortFields) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = query.ParseSortFields(str)
		return nil
	}

	var fields []query.SortField
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*s = fields
	return nil
}

// PageRequest is a 1-indexed page request with optional search and sorting.
type PageRequest struct {
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
	Search   *string    `json:"search,omitempty"`
	Sort     SortFields `json:"sort,omitempty"`
}

// Normalize clamps the page to at least 1 and the page size into
// [1, cfg.MaxPageSize], using cfg.DefaultPageSize when unset.
func (r *PageRequest) Normalize(cfg Config) {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = cfg.DefaultPageSize
	}
	r.PageSize = min(r.PageSize, cfg.MaxPageSize)
}

// Offset is the number of rows that precede the requested page.
func (r *PageRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// PageRequestFromQuery reads page, page_size, search, and sort from values
// and normalizes the result. Unparseable numbers fall back to defaults.
func PageRequestFromQuery(values url.Values, cfg Config) PageRequest {
	page, _ := strconv.Atoi(values.Get(ParamPage))
	size, _ := strconv.Atoi(values.Get(ParamPageSize))

	req := PageRequest{
		Page:     page,
		PageSize: size,
		Sort:     query.ParseSortFields(values.Get(ParamSort)),
	}
	if s := values.Get(ParamSearch); s != "" {
		req.Search = &s
	}

	req.Normalize(cfg)
	return req
}

// PageResult holds one page of data and its position in the full set.
type PageResult[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPageResult builds a PageResult. TotalPages is at least 1 and Data is
// never nil, so an empty page encodes as [].
func NewPageResult[T any](data []T, total, page, pageSize int) PageResult[T] {
	pages := 1
	if pageSize > 0 && total > 0 {
		pages = (total + pageSize - 1) / pageSize
	}

	if data == nil {
		data = []T{}
	}

	return PageResult[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pages,
	}
}

// Slice pages an already filtered and ordered in-memory set.
func Slice[T any](items []T, req PageRequest) PageResult[T] {
	total := len(items)
	start := min(max(req.Offset(), 0), total)
	end := min(start+max(req.PageSize, 0), total)

	return NewPageResult(items[start:end], total, req.Page, req.PageSize)
}
