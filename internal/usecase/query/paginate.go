package query

import (
	"slices"

	domquery "github.com/kailas-cloud/mediacat/internal/domain/query"
	"github.com/kailas-cloud/mediacat/internal/domain/record"
)

// paginate slices one page out of records. A page past the end is empty, never an error.
func paginate(records []record.Record, page, pageSize int) domquery.Page {
	total := len(records)
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	items := []record.Record{}
	if page-1 < totalPages {
		start := (page - 1) * pageSize
		end := total
		if pageSize < total-start {
			end = start + pageSize
		}
		items = slices.Clone(records[start:end])
	}

	return domquery.Page{
		Items: items,
		Pagination: domquery.Pagination{
			Total:      total,
			Page:       page,
			TotalPages: totalPages,
			PageSize:   pageSize,
		},
	}
}
