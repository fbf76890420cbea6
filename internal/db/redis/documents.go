package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/mediacat/internal/db"
)

// Layout:
//
//	<prefix>record:<id>  STRING  JSON payload
//	<prefix>records      ZSET    id members scored by insertion sequence
//	<prefix>seq          STRING  insertion sequence counter

func (s *Store) docKey(id int64) string { return s.prefix + "record:" + strconv.FormatInt(id, 10) }
func (s *Store) orderKey() string       { return s.prefix + "records" }
func (s *Store) seqKey() string         { return s.prefix + "seq" }

// List returns every document in insertion order.
// Ids present in the order set whose payload has vanished are skipped.
func (s *Store) List(ctx context.Context) ([]db.Document, error) {
	members, err := s.do(ctx, s.b().Zrange().Key(s.orderKey()).Min("0").Max("-1").Build()).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpList, Err: err}
	}
	if len(members) == 0 {
		return []db.Document{}, nil
	}

	ids := make([]int64, len(members))
	keys := make([]string, len(members))
	for i, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, &db.Error{Op: db.OpList, Err: fmt.Errorf("member %q: %w", m, db.ErrCorrupted)}
		}
		ids[i] = id
		keys[i] = s.docKey(id)
	}

	values, err := s.do(ctx, s.b().Mget().Key(keys...).Build()).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpList, Err: err}
	}

	docs := make([]db.Document, 0, len(values))
	for i, v := range values {
		if v.IsNil() {
			continue
		}
		data, err := v.AsBytes()
		if err != nil {
			return nil, &db.Error{Op: db.OpList, Err: fmt.Errorf("key %s: %w", keys[i], err)}
		}
		docs = append(docs, db.Document{ID: ids[i], Data: data})
	}
	return docs, nil
}

// Get returns a single document.
func (s *Store) Get(ctx context.Context, id int64) (db.Document, error) {
	data, err := s.do(ctx, s.b().Get().Key(s.docKey(id)).Build()).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return db.Document{}, db.ErrNotFound
		}
		return db.Document{}, &db.Error{Op: db.OpGet, Err: err}
	}
	return db.Document{ID: id, Data: data}, nil
}

// Exists reports whether a document is stored under id.
func (s *Store) Exists(ctx context.Context, id int64) (bool, error) {
	n, err := s.do(ctx, s.b().Exists().Key(s.docKey(id)).Build()).AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpExists, Err: err}
	}
	return n > 0, nil
}

// Insert stores a new document with SET NX, or fails with db.ErrConflict if the id is taken.
// The id is then appended to the order set.
func (s *Store) Insert(ctx context.Context, doc db.Document) error {
	key := s.docKey(doc.ID)
	err := s.do(ctx, s.b().Set().Key(key).Value(rueidis.BinaryString(doc.Data)).Nx().Build()).Error()
	if rueidis.IsRedisNil(err) {
		return &db.Error{Op: db.OpInsert, Err: fmt.Errorf("id %d: %w", doc.ID, db.ErrConflict)}
	}
	if err != nil {
		return &db.Error{Op: db.OpInsert, Err: fmt.Errorf("id %d: %w", doc.ID, err)}
	}

	if err := s.appendOrder(ctx, doc.ID); err != nil {
		// without an order entry the payload is invisible to List; drop it
		_ = s.do(ctx, s.b().Del().Key(key).Build()).Error()
		return err
	}
	return nil
}

func (s *Store) appendOrder(ctx context.Context, id int64) error {
	seq, err := s.do(ctx, s.b().Incr().Key(s.seqKey()).Build()).AsInt64()
	if err != nil {
		return &db.Error{Op: db.OpSeq, Err: err}
	}
	member := strconv.FormatInt(id, 10)
	cmd := s.b().Zadd().Key(s.orderKey()).Nx().ScoreMember().ScoreMember(float64(seq), member).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpInsert, Err: fmt.Errorf("id %d: %w", id, err)}
	}
	return nil
}

// Replace overwrites an existing document with SET XX; its order entry is untouched.
func (s *Store) Replace(ctx context.Context, doc db.Document) error {
	err := s.do(ctx, s.b().Set().Key(s.docKey(doc.ID)).Value(rueidis.BinaryString(doc.Data)).Xx().Build()).Error()
	if rueidis.IsRedisNil(err) {
		return db.ErrNotFound
	}
	if err != nil {
		return &db.Error{Op: db.OpReplace, Err: fmt.Errorf("id %d: %w", doc.ID, err)}
	}
	return nil
}

// Delete removes a document and its order entry.
func (s *Store) Delete(ctx context.Context, id int64) error {
	results := s.client.DoMulti(ctx,
		s.b().Del().Key(s.docKey(id)).Build(),
		s.b().Zrem().Key(s.orderKey()).Member(strconv.FormatInt(id, 10)).Build(),
	)
	for _, res := range results {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpDelete, Err: fmt.Errorf("id %d: %w", id, err)}
		}
	}
	n, err := results[0].AsInt64()
	if err != nil {
		return &db.Error{Op: db.OpDelete, Err: err}
	}
	if n == 0 {
		return db.ErrNotFound
	}
	return nil
}
