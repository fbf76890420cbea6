package record

import (
	"context"

	domrec "github.com/kailas-cloud/mediacat/internal/domain/record"
)

// Repository defines the storage contract for records.
type Repository interface {
	Get(ctx context.Context, id int64) (domrec.Record, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// Insert fails with domain.ErrAlreadyExists when the id is taken.
	Insert(ctx context.Context, r *domrec.Record) error
	// Replace fails with domain.ErrNotFound when the record is gone.
	Replace(ctx context.Context, r *domrec.Record) error
	Delete(ctx context.Context, id int64) error
}
