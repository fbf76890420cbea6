package record

import (
	"context"

	"github.com/kailas-cloud/mediacat/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	listFn    func(ctx context.Context) ([]db.Document, error)
	getFn     func(ctx context.Context, id int64) (db.Document, error)
	existsFn  func(ctx context.Context, id int64) (bool, error)
	insertFn  func(ctx context.Context, doc db.Document) error
	replaceFn func(ctx context.Context, doc db.Document) error
	deleteFn  func(ctx context.Context, id int64) error
}

func (m *mockStore) List(ctx context.Context) ([]db.Document, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []db.Document{}, nil
}

func (m *mockStore) Get(ctx context.Context, id int64) (db.Document, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return db.Document{}, db.ErrNotFound
}

func (m *mockStore) Exists(ctx context.Context, id int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, id)
	}
	return false, nil
}

func (m *mockStore) Insert(ctx context.Context, doc db.Document) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, doc)
	}
	return nil
}

func (m *mockStore) Replace(ctx context.Context, doc db.Document) error {
	if m.replaceFn != nil {
		return m.replaceFn(ctx, doc)
	}
	return nil
}

func (m *mockStore) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}
