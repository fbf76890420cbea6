package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/mediacat/internal/db"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "db.json"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestNewStore_CreatesEmptyArray(t *testing.T) {
	s := newTestStore(t)

	raw, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.TrimSpace(string(raw)) != "[]" {
		t.Errorf("expected empty array, got %q", raw)
	}
	docs, err := s.List(context.Background())
	if err != nil || len(docs) != 0 {
		t.Errorf("List() = %v, %v", docs, err)
	}
}

func TestNewStore_RequiresPath(t *testing.T) {
	if _, err := NewStore(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestNewStore_KeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	seed := `[{"ID":1,"name":"Naruto"},{"id":2,"name":"Bleach"}]`
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	docs, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 2 || docs[0].ID != 1 || docs[1].ID != 2 {
		t.Errorf("unexpected docs: %+v", docs)
	}
}

func TestInsertReplaceGetDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, d := range []db.Document{
		{ID: 1, Data: []byte(`{"id":1,"name":"a"}`)},
		{ID: 2, Data: []byte(`{"id":2,"name":"b"}`)},
		{ID: 3, Data: []byte(`{"id":3,"name":"c"}`)},
	} {
		if err := s.Insert(ctx, d); err != nil {
			t.Fatalf("Insert(%d): %v", d.ID, err)
		}
	}

	// replace keeps position
	if err := s.Replace(ctx, db.Document{ID: 2, Data: []byte(`{"id":2,"name":"B"}`)}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	docs, _ := s.List(ctx)
	if len(docs) != 3 || docs[1].ID != 2 || !strings.Contains(string(docs[1].Data), `"B"`) {
		t.Errorf("update did not replace in place: %+v", docs)
	}

	got, err := s.Get(ctx, 3)
	if err != nil || !strings.Contains(string(got.Data), `"c"`) {
		t.Errorf("Get(3) = %s, %v", got.Data, err)
	}

	if ok, _ := s.Exists(ctx, 1); !ok {
		t.Error("Exists(1) = false")
	}
	if err := s.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, _ := s.Exists(ctx, 1); ok {
		t.Error("Exists(1) after delete = true")
	}
	if err := s.Delete(ctx, 1); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("second Delete: expected ErrNotFound, got %v", err)
	}
	if _, err := s.Get(ctx, 1); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("Get deleted: expected ErrNotFound, got %v", err)
	}

	docs, _ = s.List(ctx)
	if len(docs) != 2 || docs[0].ID != 2 || docs[1].ID != 3 {
		t.Errorf("unexpected order after delete: %+v", docs)
	}
}

func TestInsert_InvalidJSON(t *testing.T) {
	s := newTestStore(t)
	err := s.Insert(context.Background(), db.Document{ID: 1, Data: []byte(`{broken`)})
	if !errors.Is(err, db.ErrCorrupted) {
		t.Fatalf("expected ErrCorrupted, got %v", err)
	}
}

func TestInsert_Conflict(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	if err := s.Insert(ctx, db.Document{ID: 1, Data: []byte(`{"id":1,"name":"first"}`)}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	err := s.Insert(ctx, db.Document{ID: 1, Data: []byte(`{"id":1,"name":"second"}`)})
	if !errors.Is(err, db.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	got, _ := s.Get(ctx, 1)
	if !strings.Contains(string(got.Data), "first") {
		t.Errorf("conflicting insert overwrote the document: %s", got.Data)
	}
}

func TestInsert_ConcurrentSameID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	const n = 8
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Insert(ctx, db.Document{ID: 7, Data: []byte(fmt.Sprintf(`{"id":7,"n":%d}`, i))})
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case !errors.Is(err, db.ErrConflict):
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("expected exactly one successful insert, got %d", ok)
	}
	docs, _ := s.List(ctx)
	if len(docs) != 1 {
		t.Errorf("expected 1 stored document, got %d", len(docs))
	}
}

func TestReplace_Missing(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	if err := s.Replace(ctx, db.Document{ID: 4, Data: []byte(`{"id":4}`)}); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if ok, _ := s.Exists(ctx, 4); ok {
		t.Error("Replace must not create a document")
	}
}

func TestCorruptedFile(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.Path(), []byte(`{"not":"an array"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := s.List(context.Background()); !errors.Is(err, db.ErrCorrupted) {
		t.Errorf("List: expected ErrCorrupted, got %v", err)
	}
	if err := s.Ping(context.Background()); err == nil {
		t.Error("Ping should fail on a corrupted file")
	}
}

func TestPicksUpExternalEdits(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.Path(), []byte(`[{"id":9,"name":"edited"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if ok, err := s.Exists(context.Background(), 9); err != nil || !ok {
		t.Errorf("Exists(9) = %v, %v", ok, err)
	}
}

func TestWaitForReady(t *testing.T) {
	s := newTestStore(t)
	if err := s.WaitForReady(context.Background(), time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNoTempFilesLeft(t *testing.T) {
	s := newTestStore(t)
	for i := range 5 {
		_ = s.Insert(context.Background(), db.Document{ID: int64(i), Data: []byte(`{}`)})
	}
	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only db.json, got %d entries", len(entries))
	}
}
