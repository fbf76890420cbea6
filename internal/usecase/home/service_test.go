package home

import (
	"context"
	"errors"
	"testing"
	"time"

	domrec "github.com/kailas-cloud/mediacat/internal/domain/record"
)

// --- Mocks ---

type mockSnapshotter struct {
	records []domrec.Record
	err     error
}

func (m *mockSnapshotter) Snapshot(_ context.Context) ([]domrec.Record, error) {
	return m.records, m.err
}

func rec(id int64, name string, tags ...string) domrec.Record {
	return domrec.Reconstruct(id, domrec.Fields{Name: name, Img: "/uploads/" + name + ".png", Tag: tags}, time.Time{}, time.Time{})
}

// --- Tests ---

func TestBuckets_Default(t *testing.T) {
	snap := &mockSnapshotter{records: []domrec.Record{
		rec(1, "naruto", "popular"),
		rec(2, "haikyu", "New release"),
		rec(3, "bleach", "popular", "New release"),
		rec(4, "monster"),
	}}

	sections, err := New(snap, nil).Buckets(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}

	popular := sections[0]
	if popular.Title != "Popular" || popular.Total != 2 {
		t.Errorf("Popular = %q total %d", popular.Title, popular.Total)
	}
	if popular.Items[0].ID != 1 || popular.Items[1].ID != 3 {
		t.Errorf("Popular items out of storage order: %+v", popular.Items)
	}
	if popular.Items[0].Img != "/uploads/naruto.png" {
		t.Errorf("Img = %q", popular.Items[0].Img)
	}

	fresh := sections[1]
	if fresh.Title != "New release" || fresh.Total != 2 || fresh.Items[0].ID != 2 || fresh.Items[1].ID != 3 {
		t.Errorf("New release = %+v", fresh)
	}
}

func TestBuckets_Custom(t *testing.T) {
	snap := &mockSnapshotter{records: []domrec.Record{rec(1, "a", "classic")}}
	sections, err := New(snap, []Bucket{{Title: "Classics", Tag: "classic"}, {Title: "Empty", Tag: "none"}}).
		Buckets(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sections[0].Total != 1 {
		t.Errorf("Classics total = %d", sections[0].Total)
	}
	if sections[1].Items == nil || sections[1].Total != 0 {
		t.Errorf("empty bucket should have non-nil empty items, got %#v", sections[1])
	}
}

func TestBuckets_TagIsCaseSensitive(t *testing.T) {
	snap := &mockSnapshotter{records: []domrec.Record{rec(1, "a", "Popular")}}
	sections, _ := New(snap, nil).Buckets(context.Background())
	if sections[0].Total != 0 {
		t.Error("tag match must be exact")
	}
}

func TestBuckets_Error(t *testing.T) {
	storageErr := errors.New("down")
	_, err := New(&mockSnapshotter{err: storageErr}, nil).Buckets(context.Background())
	if !errors.Is(err, storageErr) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
