package mediacat

import "context"

// QueryBuilder is a fluent builder for catalog queries.
type QueryBuilder struct {
	catalog *Catalog
	q       Query
}

// Name sets the fuzzy name query.
func (b *QueryBuilder) Name(q string) *QueryBuilder {
	b.q.Name = q
	return b
}

// Tags keeps records carrying at least one of the tags.
func (b *QueryBuilder) Tags(tags ...string) *QueryBuilder {
	b.q.Tags = append(b.q.Tags, tags...)
	return b
}

// Genres keeps records carrying at least one of the genres.
func (b *QueryBuilder) Genres(genres ...string) *QueryBuilder {
	b.q.Genres = append(b.q.Genres, genres...)
	return b
}

// Description keeps records whose description contains s, ignoring case.
func (b *QueryBuilder) Description(s string) *QueryBuilder {
	b.q.Description = s
	return b
}

// Year keeps records released in year.
func (b *QueryBuilder) Year(year int) *QueryBuilder {
	b.q.Year = &year
	return b
}

// MinRating keeps records rated at least r.
func (b *QueryBuilder) MinRating(r float64) *QueryBuilder {
	b.q.MinRating = &r
	return b
}

// MaxRating keeps records rated at most r.
func (b *QueryBuilder) MaxRating(r float64) *QueryBuilder {
	b.q.MaxRating = &r
	return b
}

// RatingBetween keeps records rated within [lo, hi].
func (b *QueryBuilder) RatingBetween(lo, hi float64) *QueryBuilder {
	return b.MinRating(lo).MaxRating(hi)
}

// SortBy orders results by key.
func (b *QueryBuilder) SortBy(key SortKey, order SortOrder) *QueryBuilder {
	b.q.SortKey = key
	b.q.SortOrder = order
	return b
}

// Page selects a 1-based page of size records.
func (b *QueryBuilder) Page(page, size int) *QueryBuilder {
	b.q.Page = page
	b.q.PageSize = size
	return b
}

// Build returns the accumulated query.
func (b *QueryBuilder) Build() Query {
	return b.q
}

// Do executes the query.
func (b *QueryBuilder) Do(ctx context.Context) (Page, error) {
	return b.catalog.Query(ctx, b.q)
}
