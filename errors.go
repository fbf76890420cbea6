package mediacat

import "github.com/kailas-cloud/mediacat/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound          = domain.ErrNotFound
	ErrInvalidRecord     = domain.ErrInvalidRecord
	ErrInvalidSortKey    = domain.ErrInvalidSortKey
	ErrInvalidSortOrder  = domain.ErrInvalidSortOrder
	ErrInvalidPagination = domain.ErrInvalidPagination
	ErrAlreadyExists     = domain.ErrAlreadyExists
)
