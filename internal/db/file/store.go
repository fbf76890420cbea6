// Package file stores documents in a single JSON array file.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kailas-cloud/mediacat/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store keeps every document in one JSON array. Each call re-reads the file so
// edits made by other tools are picked up; writes replace it atomically.
type Store struct {
	mu   sync.RWMutex
	path string
}

// NewStore opens the file at path, creating it with an empty array if missing.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &db.Error{Op: db.OpOpen, Err: err}
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := writeAtomic(path, []byte("[]\n")); err != nil {
			return nil, &db.Error{Op: db.OpOpen, Err: err}
		}
	} else if err != nil {
		return nil, &db.Error{Op: db.OpOpen, Err: err}
	}
	return &Store{path: path}, nil
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// Ping checks the file is readable and well-formed.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, err := s.load(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close is a no-op; the file is not held open.
func (s *Store) Close() {}

// WaitForReady polls Ping until the file is readable or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.PollReady(ctx, s, timeout, 100*time.Millisecond)
}

// List returns every document in file order.
func (s *Store) List(_ context.Context) ([]db.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs, err := s.load()
	if err != nil {
		return nil, &db.Error{Op: db.OpList, Err: err}
	}
	return docs, nil
}

// Get returns the first document with id.
func (s *Store) Get(_ context.Context, id int64) (db.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs, err := s.load()
	if err != nil {
		return db.Document{}, &db.Error{Op: db.OpGet, Err: err}
	}
	if i := indexOf(docs, id); i >= 0 {
		return docs[i], nil
	}
	return db.Document{}, db.ErrNotFound
}

// Exists reports whether a document with id is stored.
func (s *Store) Exists(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs, err := s.load()
	if err != nil {
		return false, &db.Error{Op: db.OpExists, Err: err}
	}
	return indexOf(docs, id) >= 0, nil
}

// Insert appends doc, or fails with db.ErrConflict if its id is already stored.
func (s *Store) Insert(_ context.Context, doc db.Document) error {
	return s.write(db.OpInsert, doc, func(docs []db.Document, i int) ([]db.Document, error) {
		if i >= 0 {
			return nil, fmt.Errorf("id %d: %w", doc.ID, db.ErrConflict)
		}
		return append(docs, doc), nil
	})
}

// Replace overwrites the stored document with the same id in place.
func (s *Store) Replace(_ context.Context, doc db.Document) error {
	return s.write(db.OpReplace, doc, func(docs []db.Document, i int) ([]db.Document, error) {
		if i < 0 {
			return nil, db.ErrNotFound
		}
		docs[i] = doc
		return docs, nil
	})
}

// write runs apply on the current contents under the write lock and persists the result.
// i is the index of doc.ID, or -1.
func (s *Store) write(op string, doc db.Document, apply func(docs []db.Document, i int) ([]db.Document, error)) error {
	if !json.Valid(doc.Data) {
		return &db.Error{Op: op, Err: fmt.Errorf("id %d: %w", doc.ID, db.ErrCorrupted)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	docs, err := s.load()
	if err != nil {
		return &db.Error{Op: op, Err: err}
	}
	docs, err = apply(docs, indexOf(docs, doc.ID))
	if errors.Is(err, db.ErrNotFound) {
		return err
	}
	if err != nil {
		return &db.Error{Op: op, Err: err}
	}
	if err := s.save(docs); err != nil {
		return &db.Error{Op: op, Err: err}
	}
	return nil
}

// Delete removes the document with id.
func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, err := s.load()
	if err != nil {
		return &db.Error{Op: db.OpDelete, Err: err}
	}
	i := indexOf(docs, id)
	if i < 0 {
		return db.ErrNotFound
	}
	docs = append(docs[:i], docs[i+1:]...)
	if err := s.save(docs); err != nil {
		return &db.Error{Op: db.OpDelete, Err: err}
	}
	return nil
}

type idProbe struct {
	ID int64 `json:"id"`
}

func (s *Store) load() ([]db.Document, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return []db.Document{}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", s.path, db.ErrCorrupted, err)
	}

	docs := make([]db.Document, 0, len(items))
	for i, item := range items {
		var p idProbe
		if err := json.Unmarshal(item, &p); err != nil {
			return nil, fmt.Errorf("%s: element %d: %w: %w", s.path, i, db.ErrCorrupted, err)
		}
		docs = append(docs, db.Document{ID: p.ID, Data: item})
	}
	return docs, nil
}

func (s *Store) save(docs []db.Document) error {
	items := make([]json.RawMessage, len(docs))
	for i, d := range docs {
		items[i] = d.Data
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(s.path, append(data, '\n'))
}

func indexOf(docs []db.Document, id int64) int {
	for i := range docs {
		if docs[i].ID == id {
			return i
		}
	}
	return -1
}

// writeAtomic writes to a temp file in the same directory and renames it over path.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // best-effort cleanup; gone after rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
