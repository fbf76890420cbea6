package query

import (
	"slices"

	"golang.org/x/text/language"

	domquery "github.com/kailas-cloud/mediacat/internal/domain/query"
	"github.com/kailas-cloud/mediacat/internal/domain/record"
)

// Engine runs the catalog query pipeline: fuzzy name search, attribute filters, sort, paginate.
// It holds only immutable configuration and is safe for concurrent use.
type Engine struct {
	threshold float64
	collation language.Tag
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithFuzzyThreshold sets the maximum normalized distance a name may have from the query.
// Values outside [0,1] are ignored.
func WithFuzzyThreshold(t float64) EngineOption {
	return func(e *Engine) {
		if t >= 0 && t <= 1 {
			e.threshold = t
		}
	}
}

// WithCollation sets the locale used to order names.
func WithCollation(tag language.Tag) EngineOption {
	return func(e *Engine) {
		e.collation = tag
	}
}

// NewEngine creates an Engine. Defaults: threshold 0.3, English collation.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{threshold: DefaultFuzzyThreshold, collation: language.English}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Threshold returns the configured fuzzy threshold.
func (e *Engine) Threshold() float64 { return e.threshold }

// Execute filters, orders and paginates records for req. records is never modified.
func (e *Engine) Execute(records []record.Record, req domquery.Request) (domquery.Page, error) {
	if err := req.Validate(); err != nil {
		return domquery.Page{}, err
	}

	var working []record.Record
	if req.HasNameQuery() {
		working = fuzzySearch(records, req.NameQuery, e.threshold)
	} else {
		working = slices.Clone(records)
	}

	working = filterInPlace(working, predicates(&req))

	if req.SortKey != domquery.SortNone {
		if err := sortInPlace(working, req.SortKey, req.SortOrder, e.collation); err != nil {
			return domquery.Page{}, err
		}
	}

	return paginate(working, req.Page, req.PageSize), nil
}
