package query

import (
	"strings"

	domquery "github.com/kailas-cloud/mediacat/internal/domain/query"
	"github.com/kailas-cloud/mediacat/internal/domain/record"
)

type predicate func(r *record.Record) bool

// predicates builds one conjunctive predicate per active filter.
func predicates(req *domquery.Request) []predicate {
	var ps []predicate

	if len(req.TagFilter) > 0 {
		tags := req.TagFilter
		ps = append(ps, func(r *record.Record) bool { return r.HasAnyTag(tags) })
	}
	if len(req.GenreFilter) > 0 {
		genres := req.GenreFilter
		ps = append(ps, func(r *record.Record) bool { return r.HasAnyGenre(genres) })
	}
	if req.DescriptionFilter != "" {
		needle := strings.ToLower(req.DescriptionFilter)
		ps = append(ps, func(r *record.Record) bool {
			return strings.Contains(strings.ToLower(r.Description()), needle)
		})
	}
	if req.YearFilter != nil {
		year := *req.YearFilter
		ps = append(ps, func(r *record.Record) bool { return r.Year() == year })
	}
	if req.MinRating != nil {
		lo := *req.MinRating
		ps = append(ps, func(r *record.Record) bool { return r.Rating() >= lo })
	}
	if req.MaxRating != nil {
		hi := *req.MaxRating
		ps = append(ps, func(r *record.Record) bool { return r.Rating() <= hi })
	}

	return ps
}

// filterInPlace keeps records satisfying every predicate, preserving order.
// It reuses the backing array of records, which must be owned by the caller.
func filterInPlace(records []record.Record, ps []predicate) []record.Record {
	if len(ps) == 0 {
		return records
	}
	kept := records[:0]
	for i := range records {
		if matchesAll(&records[i], ps) {
			kept = append(kept, records[i])
		}
	}
	clear(records[len(kept):])
	return kept
}

func matchesAll(r *record.Record, ps []predicate) bool {
	for _, p := range ps {
		if !p(r) {
			return false
		}
	}
	return true
}
