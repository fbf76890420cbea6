package health

import "context"

// DBPinger checks storage availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// UploadChecker checks that cover images can be written.
type UploadChecker interface {
	CheckWritable(ctx context.Context) error
}
