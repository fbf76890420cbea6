package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/mediacat/internal/db"
)

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewStore_RequiresAddrs(t *testing.T) {
	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("expected error for empty addrs")
	}
}

func TestKeyLayout(t *testing.T) {
	s := newStore(nil, "")
	if s.docKey(42) != "mediacat:record:42" {
		t.Errorf("docKey = %q", s.docKey(42))
	}
	if s.orderKey() != "mediacat:records" || s.seqKey() != "mediacat:seq" {
		t.Errorf("orderKey=%q seqKey=%q", s.orderKey(), s.seqKey())
	}

	custom := newStore(nil, "test:")
	if custom.docKey(1) != "test:record:1" {
		t.Errorf("custom prefix docKey = %q", custom.docKey(1))
	}
}

// --- documents.go tests ---

func TestList_InsertionOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().
			Do(gomock.Any(), mock.Match("ZRANGE", "mediacat:records", "0", "-1")).
			Return(mock.Result(mock.RedisArray(
				mock.RedisString("20"),
				mock.RedisString("10"),
				mock.RedisString("30"),
			))),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("MGET", "mediacat:record:20", "mediacat:record:10", "mediacat:record:30")).
			Return(mock.Result(mock.RedisArray(
				mock.RedisString(`{"id":20}`),
				mock.RedisNil(),
				mock.RedisString(`{"id":30}`),
			))),
	)

	s := NewStoreForTest(c)
	docs, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 docs (dangling id skipped), got %d", len(docs))
	}
	if docs[0].ID != 20 || docs[1].ID != 30 {
		t.Errorf("unexpected order: %d, %d", docs[0].ID, docs[1].ID)
	}
	if string(docs[1].Data) != `{"id":30}` {
		t.Errorf("Data = %s", docs[1].Data)
	}
}

func TestList_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("ZRANGE", "mediacat:records", "0", "-1")).
		Return(mock.Result(mock.RedisArray()))

	s := NewStoreForTest(c)
	docs, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if docs == nil || len(docs) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", docs)
	}
}

func TestList_CorruptedMember(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("ZRANGE", "mediacat:records", "0", "-1")).
		Return(mock.Result(mock.RedisArray(mock.RedisString("not-a-number"))))

	s := NewStoreForTest(c)
	_, err := s.List(context.Background())
	if !errors.Is(err, db.ErrCorrupted) {
		t.Fatalf("expected ErrCorrupted, got %v", err)
	}
}

func TestList_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	_, err := s.List(context.Background())
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %T", err)
	}
}

func TestGet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "mediacat:record:7")).
		Return(mock.Result(mock.RedisString(`{"id":7,"name":"Naruto"}`)))

	s := NewStoreForTest(c)
	doc, err := s.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ID != 7 || string(doc.Data) != `{"id":7,"name":"Naruto"}` {
		t.Errorf("unexpected doc: %d %s", doc.ID, doc.Data)
	}
}

func TestGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "mediacat:record:7")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	_, err := s.Get(context.Background(), 7)
	if !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().
			Do(gomock.Any(), mock.Match("EXISTS", "mediacat:record:1")).
			Return(mock.Result(mock.RedisInt64(1))),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("EXISTS", "mediacat:record:2")).
			Return(mock.Result(mock.RedisInt64(0))),
	)

	s := NewStoreForTest(c)
	if ok, err := s.Exists(context.Background(), 1); err != nil || !ok {
		t.Errorf("Exists(1) = %v, %v", ok, err)
	}
	if ok, err := s.Exists(context.Background(), 2); err != nil || ok {
		t.Errorf("Exists(2) = %v, %v", ok, err)
	}
}

func TestInsert_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().
			Do(gomock.Any(), mock.Match("SET", "mediacat:record:5", `{"id":5}`, "NX")).
			Return(mock.Result(mock.RedisString("OK"))),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("INCR", "mediacat:seq")).
			Return(mock.Result(mock.RedisInt64(3))),
		c.EXPECT().
			Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
				return cmd[0] == "ZADD" && cmd[1] == "mediacat:records" && cmd[2] == "NX" && cmd[4] == "5"
			})).
			Return(mock.Result(mock.RedisInt64(1))),
	)

	s := NewStoreForTest(c)
	if err := s.Insert(context.Background(), db.Document{ID: 5, Data: []byte(`{"id":5}`)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInsert_Conflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "mediacat:record:5", `{}`, "NX")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	err := s.Insert(context.Background(), db.Document{ID: 5, Data: []byte(`{}`)})
	if !errors.Is(err, db.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestInsert_SeqErrorDropsPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().
			Do(gomock.Any(), mock.Match("SET", "mediacat:record:5", `{}`, "NX")).
			Return(mock.Result(mock.RedisString("OK"))),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("INCR", "mediacat:seq")).
			Return(mock.ErrorResult(context.DeadlineExceeded)),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("DEL", "mediacat:record:5")).
			Return(mock.Result(mock.RedisInt64(1))),
	)

	s := NewStoreForTest(c)
	err := s.Insert(context.Background(), db.Document{ID: 5, Data: []byte(`{}`)})
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpSeq {
		t.Fatalf("expected SEQ db.Error, got %v", err)
	}
}

func TestInsert_WriteError(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.ErrorResult(errors.New("OOM")))

	s := NewStoreForTest(c)
	err := s.Insert(context.Background(), db.Document{ID: 5})
	if !isDBError(err) || errors.Is(err, db.ErrConflict) {
		t.Fatalf("expected non-conflict db.Error, got %v", err)
	}
}

func TestReplace_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "mediacat:record:5", `{"id":5}`, "XX")).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.Replace(context.Background(), db.Document{ID: 5, Data: []byte(`{"id":5}`)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReplace_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "mediacat:record:5", `{}`, "XX")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	if err := s.Replace(context.Background(), db.Document{ID: 5, Data: []byte(`{}`)}); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(),
			mock.Match("DEL", "mediacat:record:9"),
			mock.Match("ZREM", "mediacat:records", "9"),
		).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(1)),
			mock.Result(mock.RedisInt64(1)),
		})

	s := NewStoreForTest(c)
	if err := s.Delete(context.Background(), 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(0)),
			mock.Result(mock.RedisInt64(0)),
		})

	s := NewStoreForTest(c)
	if err := s.Delete(context.Background(), 9); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// --- helpers ---

func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}
