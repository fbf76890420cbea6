package query

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/mediacat/internal/domain"
	domquery "github.com/kailas-cloud/mediacat/internal/domain/query"
	"github.com/kailas-cloud/mediacat/internal/domain/record"
)

// --- Mocks ---

type mockSnapshotter struct {
	records []record.Record
	err     error
	calls   int
}

func (m *mockSnapshotter) Snapshot(_ context.Context) ([]record.Record, error) {
	m.calls++
	return m.records, m.err
}

// --- Tests ---

func TestQuery_Success(t *testing.T) {
	snap := &mockSnapshotter{records: numbered(12)}
	svc := New(snap, NewEngine())

	page, err := svc.Query(context.Background(), req(func(r *domquery.Request) { r.Page = 2 }))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Pagination.Total != 12 || len(page.Items) != 2 {
		t.Errorf("expected 2 of 12, got %d of %d", len(page.Items), page.Pagination.Total)
	}
	if snap.calls != 1 {
		t.Errorf("expected one snapshot, got %d", snap.calls)
	}
}

func TestQuery_InvalidRequestSkipsStorage(t *testing.T) {
	snap := &mockSnapshotter{records: numbered(3)}
	svc := New(snap, NewEngine())

	_, err := svc.Query(context.Background(), req(func(r *domquery.Request) { r.SortKey = "img" }))
	if !errors.Is(err, domain.ErrInvalidSortKey) {
		t.Fatalf("expected ErrInvalidSortKey, got %v", err)
	}
	if snap.calls != 0 {
		t.Errorf("snapshot should not be taken for an invalid request")
	}
}

func TestQuery_StorageError(t *testing.T) {
	storageErr := errors.New("connection refused")
	svc := New(&mockSnapshotter{err: storageErr}, NewEngine())

	_, err := svc.Query(context.Background(), req())
	if !errors.Is(err, storageErr) {
		t.Fatalf("expected storage error to be wrapped, got %v", err)
	}
}

func TestErrorReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{domain.ErrInvalidSortKey, "invalid_sort_key"},
		{domain.ErrInvalidSortOrder, "invalid_sort_order"},
		{domain.ErrInvalidPagination, "invalid_pagination"},
		{errors.New("boom"), "internal"},
	}
	for _, tc := range tests {
		if got := errorReason(tc.err); got != tc.want {
			t.Errorf("errorReason(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
