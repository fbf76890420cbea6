package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/mediacat/internal/db"
	"github.com/kailas-cloud/mediacat/internal/domain"
	domrec "github.com/kailas-cloud/mediacat/internal/domain/record"
)

// store is the consumer interface for record documents (ISP).
type store interface {
	List(ctx context.Context) ([]db.Document, error)
	Get(ctx context.Context, id int64) (db.Document, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Insert(ctx context.Context, doc db.Document) error
	Replace(ctx context.Context, doc db.Document) error
	Delete(ctx context.Context, id int64) error
}

// Repo implements the record and query use-case repositories.
type Repo struct {
	store store
}

// New creates a record repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Snapshot loads the whole collection in storage order.
func (r *Repo) Snapshot(ctx context.Context) ([]domrec.Record, error) {
	docs, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	out := make([]domrec.Record, 0, len(docs))
	for _, d := range docs {
		rec, err := decode(d)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Get returns a record by id.
func (r *Repo) Get(ctx context.Context, id int64) (domrec.Record, error) {
	d, err := r.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return domrec.Record{}, domain.ErrNotFound
		}
		return domrec.Record{}, fmt.Errorf("get record %d: %w", id, err)
	}
	return decode(d)
}

// Exists reports whether id is taken.
func (r *Repo) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := r.store.Exists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("check record %d: %w", id, err)
	}
	return ok, nil
}

// Insert stores a new record, or returns domain.ErrAlreadyExists if its id is taken.
func (r *Repo) Insert(ctx context.Context, rec *domrec.Record) error {
	doc, err := encode(rec)
	if err != nil {
		return err
	}
	if err := r.store.Insert(ctx, doc); err != nil {
		if errors.Is(err, db.ErrConflict) {
			return fmt.Errorf("insert record %d: %w", rec.ID(), domain.ErrAlreadyExists)
		}
		return fmt.Errorf("insert record %d: %w", rec.ID(), err)
	}
	return nil
}

// Replace overwrites a stored record, or returns domain.ErrNotFound if it is gone.
func (r *Repo) Replace(ctx context.Context, rec *domrec.Record) error {
	doc, err := encode(rec)
	if err != nil {
		return err
	}
	if err := r.store.Replace(ctx, doc); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("replace record %d: %w", rec.ID(), err)
	}
	return nil
}

// Delete removes a record.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	if err := r.store.Delete(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete record %d: %w", id, err)
	}
	return nil
}

func encode(rec *domrec.Record) (db.Document, error) {
	data, err := json.Marshal(toJSON(rec))
	if err != nil {
		return db.Document{}, fmt.Errorf("marshal record: %w", err)
	}
	return db.Document{ID: rec.ID(), Data: data}, nil
}

func decode(d db.Document) (domrec.Record, error) {
	var j recordJSON
	if err := json.Unmarshal(d.Data, &j); err != nil {
		return domrec.Record{}, fmt.Errorf("decode record %d: %w", d.ID, err)
	}
	// storage key wins over a missing or stale body id
	j.ID = d.ID
	return fromJSON(&j), nil
}
