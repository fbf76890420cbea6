package home

import (
	"context"

	domrec "github.com/kailas-cloud/mediacat/internal/domain/record"
)

// Snapshotter provides the whole collection in storage order.
type Snapshotter interface {
	Snapshot(ctx context.Context) ([]domrec.Record, error)
}
