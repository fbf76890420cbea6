package query

import "github.com/kailas-cloud/mediacat/internal/domain/record"

// Pagination is the metadata of a result page.
type Pagination struct {
	Total      int
	Page       int
	TotalPages int
	PageSize   int
}

// Page is one page of matching records in final order.
type Page struct {
	Items      []record.Record
	Pagination Pagination
}
