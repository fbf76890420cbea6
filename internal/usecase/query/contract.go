package query

import (
	"context"

	"github.com/kailas-cloud/mediacat/internal/domain/record"
)

// Snapshotter provides a consistent copy of the whole collection for one query.
type Snapshotter interface {
	Snapshot(ctx context.Context) ([]record.Record, error)
}
