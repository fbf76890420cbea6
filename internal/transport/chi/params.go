package chi

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/mediacat/internal/domain"
	domquery "github.com/kailas-cloud/mediacat/internal/domain/query"
)

// queryParams mirrors the GET /query string. Aliases keep older web clients working.
type queryParams struct {
	Name        *string
	Tag         *[]string
	Genre       *[]string
	Description *string
	Year        *int
	MinRating   *float64
	MaxRating   *float64
	Sort        *string
	SortKey     *string
	Order       *string
	SortOrder   *string
	Page        *int
	PageSize    *int
	Limit       *int
}

type binding struct {
	name    string
	explode bool
	dest    any
	kind    error
}

func bindQueryParams(values url.Values) (queryParams, error) {
	var p queryParams
	bindings := []binding{
		{"name", true, &p.Name, domain.ErrInvalidFilter},
		{"tag", false, &p.Tag, domain.ErrInvalidFilter},
		{"genre", false, &p.Genre, domain.ErrInvalidFilter},
		{"description", true, &p.Description, domain.ErrInvalidFilter},
		{"year", true, &p.Year, domain.ErrInvalidFilter},
		{"minRating", true, &p.MinRating, domain.ErrInvalidFilter},
		{"maxRating", true, &p.MaxRating, domain.ErrInvalidFilter},
		{"sort", true, &p.Sort, domain.ErrInvalidSortKey},
		{"sortKey", true, &p.SortKey, domain.ErrInvalidSortKey},
		{"order", true, &p.Order, domain.ErrInvalidSortOrder},
		{"sortOrder", true, &p.SortOrder, domain.ErrInvalidSortOrder},
		{"page", true, &p.Page, domain.ErrInvalidPagination},
		{"pageSize", true, &p.PageSize, domain.ErrInvalidPagination},
		{"limit", true, &p.Limit, domain.ErrInvalidPagination},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", b.explode, false, b.name, values, b.dest); err != nil {
			return queryParams{}, fmt.Errorf("%w: parameter %q: %w", b.kind, b.name, err)
		}
	}
	return p, nil
}

// toRequest converts bound parameters into an engine request. Page and sort values
// are passed through untouched so the engine reports them; only the page size cap
// is a transport concern.
func (p queryParams) toRequest(limits Limits) (domquery.Request, error) {
	req := domquery.NewRequest()
	req.PageSize = limits.DefaultPageSize

	if p.Name != nil {
		req.NameQuery = *p.Name
	}
	if p.Tag != nil {
		req.TagFilter = splitLabels(*p.Tag)
	}
	if p.Genre != nil {
		req.GenreFilter = splitLabels(*p.Genre)
	}
	if p.Description != nil {
		req.DescriptionFilter = strings.TrimSpace(*p.Description)
	}
	req.YearFilter = p.Year

	for name, v := range map[string]*float64{"minRating": p.MinRating, "maxRating": p.MaxRating} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return domquery.Request{}, fmt.Errorf("%w: %s must be a finite number", domain.ErrInvalidFilter, name)
		}
	}
	req.MinRating = p.MinRating
	req.MaxRating = p.MaxRating

	if key := firstOf(p.Sort, p.SortKey); key != nil {
		req.SortKey = domquery.SortKey(strings.TrimSpace(*key))
	}
	if order := firstOf(p.Order, p.SortOrder); order != nil {
		req.SortOrder = domquery.ParseSortOrder(*order)
	}

	if p.Page != nil {
		req.Page = *p.Page
	}
	if size := firstOf(p.PageSize, p.Limit); size != nil {
		req.PageSize = *size
	}
	if req.PageSize > limits.MaxPageSize {
		return domquery.Request{}, fmt.Errorf("%w: page size must be <= %d, got %d",
			domain.ErrInvalidPagination, limits.MaxPageSize, req.PageSize)
	}
	return req, nil
}

func firstOf[T any](vals ...*T) *T {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

// splitLabels trims list items and drops blanks. An all-blank list means no filter.
func splitLabels(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
