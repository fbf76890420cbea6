package db

import (
	"context"
	"fmt"
	"time"
)

// Store is the storage facade every driver implements.
type Store interface {
	Pinger
	DocumentStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks storage connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Document is a stored record payload keyed by its numeric id.
// Data is the JSON encoding owned by the repository layer.
type Document struct {
	ID   int64
	Data []byte
}

// DocumentStore keeps documents in insertion order.
// Insert fails with ErrConflict when the id is taken; Replace fails with ErrNotFound
// when it is not, and keeps the document's position.
type DocumentStore interface {
	List(ctx context.Context) ([]Document, error)
	Get(ctx context.Context, id int64) (Document, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Insert(ctx context.Context, doc Document) error
	Replace(ctx context.Context, doc Document) error
	Delete(ctx context.Context, id int64) error
}

// PollReady calls Ping every interval until it succeeds or timeout expires.
func PollReady(ctx context.Context, p Pinger, timeout, interval time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := p.Ping(ctx); err == nil {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for storage: %w", ctx.Err())
		case <-ticker.C:
			if err := p.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}
