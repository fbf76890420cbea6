package query

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/mediacat/internal/domain"
)

// Pagination defaults.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// Request is the query engine input. Zero values of optional fields mean "no constraint".
type Request struct {
	NameQuery         string
	TagFilter         []string
	GenreFilter       []string
	DescriptionFilter string
	YearFilter        *int
	MinRating         *float64
	MaxRating         *float64
	SortKey           SortKey
	SortOrder         SortOrder
	Page              int
	PageSize          int
}

// NewRequest returns an unfiltered request for the first page with the default page size.
func NewRequest() Request {
	return Request{Page: DefaultPage, PageSize: DefaultPageSize, SortOrder: Ascending}
}

// Validate checks the parameters the engine refuses to guess at.
// Page and page size are never clamped.
func (r *Request) Validate() error {
	if r.Page < 1 {
		return fmt.Errorf("%w: page must be >= 1, got %d", domain.ErrInvalidPagination, r.Page)
	}
	if r.PageSize <= 0 {
		return fmt.Errorf("%w: page size must be > 0, got %d", domain.ErrInvalidPagination, r.PageSize)
	}
	if !r.SortKey.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidSortKey, r.SortKey)
	}
	if !r.SortOrder.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidSortOrder, r.SortOrder)
	}
	return nil
}

// HasNameQuery reports whether the fuzzy search stage runs.
func (r *Request) HasNameQuery() bool { return strings.TrimSpace(r.NameQuery) != "" }

// HasFilters reports whether any attribute filter is set.
func (r *Request) HasFilters() bool {
	return len(r.TagFilter) > 0 || len(r.GenreFilter) > 0 || r.DescriptionFilter != "" ||
		r.YearFilter != nil || r.MinRating != nil || r.MaxRating != nil
}
