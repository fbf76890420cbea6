package query

import (
	"cmp"
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kailas-cloud/mediacat/internal/domain"
	domquery "github.com/kailas-cloud/mediacat/internal/domain/query"
	"github.com/kailas-cloud/mediacat/internal/domain/record"
)

type compareFunc func(a, b *record.Record) int

// comparator returns the ascending comparison for key.
// Missing timestamps are the zero time and sort first.
func comparator(key domquery.SortKey, tag language.Tag) (compareFunc, error) {
	switch key {
	case domquery.SortName:
		col := collate.New(tag)
		return func(a, b *record.Record) int { return col.CompareString(a.Name(), b.Name()) }, nil
	case domquery.SortYear:
		return func(a, b *record.Record) int { return cmp.Compare(a.Year(), b.Year()) }, nil
	case domquery.SortRating:
		return func(a, b *record.Record) int { return cmp.Compare(a.Rating(), b.Rating()) }, nil
	case domquery.SortID:
		return func(a, b *record.Record) int { return cmp.Compare(a.ID(), b.ID()) }, nil
	case domquery.SortCreatedAt:
		return func(a, b *record.Record) int { return a.CreatedAt().Compare(b.CreatedAt()) }, nil
	case domquery.SortUpdatedAt:
		return func(a, b *record.Record) int { return a.UpdatedAt().Compare(b.UpdatedAt()) }, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSortKey, key)
	}
}

// sortInPlace stably orders records by key; descending reverses the comparison so ties keep their order.
func sortInPlace(records []record.Record, key domquery.SortKey, order domquery.SortOrder, tag language.Tag) error {
	compare, err := comparator(key, tag)
	if err != nil {
		return err
	}
	desc := order.IsDescending()
	slices.SortStableFunc(records, func(a, b record.Record) int {
		c := compare(&a, &b)
		if desc {
			return -c
		}
		return c
	})
	return nil
}
