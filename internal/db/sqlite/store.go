// Package sqlite stores documents in a single SQLite table via the pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/kailas-cloud/mediacat/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	seq  INTEGER PRIMARY KEY AUTOINCREMENT,
	id   INTEGER NOT NULL UNIQUE,
	data TEXT    NOT NULL
)`

const (
	queryList    = `SELECT id, data FROM records ORDER BY seq`
	queryGet     = `SELECT data FROM records WHERE id = ?`
	queryExists  = `SELECT 1 FROM records WHERE id = ?`
	queryInsert  = `INSERT INTO records (id, data) VALUES (?, ?) ON CONFLICT(id) DO NOTHING`
	queryReplace = `UPDATE records SET data = ? WHERE id = ?`
	queryDelete  = `DELETE FROM records WHERE id = ?`
)

// Store implements db.Store on SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database at path and applies the schema.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &db.Error{Op: db.OpOpen, Err: err}
		}
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, &db.Error{Op: db.OpOpen, Err: err}
	}
	// single writer; readers share the connection
	conn.SetMaxOpenConns(1)

	s := NewStoreFromDB(conn)
	if err := s.migrate(context.Background()); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

// NewStoreFromDB wraps an existing handle without applying the schema.
func NewStoreFromDB(conn *sql.DB) *Store {
	return &Store{db: conn}
}

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return &db.Error{Op: db.OpMigrate, Err: err}
	}
	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() {
	_ = s.db.Close()
}

// WaitForReady polls Ping until the database responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.PollReady(ctx, s, timeout, 100*time.Millisecond)
}

// List returns every document in insertion order.
func (s *Store) List(ctx context.Context) ([]db.Document, error) {
	rows, err := s.db.QueryContext(ctx, queryList)
	if err != nil {
		return nil, &db.Error{Op: db.OpList, Err: err}
	}
	defer rows.Close()

	docs := []db.Document{}
	for rows.Next() {
		var (
			d    db.Document
			data string
		)
		if err := rows.Scan(&d.ID, &data); err != nil {
			return nil, &db.Error{Op: db.OpList, Err: err}
		}
		d.Data = []byte(data)
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpList, Err: err}
	}
	return docs, nil
}

// Get returns a single document.
func (s *Store) Get(ctx context.Context, id int64) (db.Document, error) {
	var data string
	err := s.db.QueryRowContext(ctx, queryGet, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return db.Document{}, db.ErrNotFound
	}
	if err != nil {
		return db.Document{}, &db.Error{Op: db.OpGet, Err: err}
	}
	return db.Document{ID: id, Data: []byte(data)}, nil
}

// Exists reports whether a document is stored under id.
func (s *Store) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, queryExists, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, &db.Error{Op: db.OpExists, Err: err}
	}
	return true, nil
}

// Insert adds a document, or fails with db.ErrConflict if the id is taken.
func (s *Store) Insert(ctx context.Context, doc db.Document) error {
	n, err := s.exec(ctx, queryInsert, doc.ID, string(doc.Data))
	if err != nil {
		return &db.Error{Op: db.OpInsert, Err: fmt.Errorf("id %d: %w", doc.ID, err)}
	}
	if n == 0 {
		return &db.Error{Op: db.OpInsert, Err: fmt.Errorf("id %d: %w", doc.ID, db.ErrConflict)}
	}
	return nil
}

// Replace overwrites an existing document; the row and therefore its position are kept.
func (s *Store) Replace(ctx context.Context, doc db.Document) error {
	n, err := s.exec(ctx, queryReplace, string(doc.Data), doc.ID)
	if err != nil {
		return &db.Error{Op: db.OpReplace, Err: fmt.Errorf("id %d: %w", doc.ID, err)}
	}
	if n == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes a document.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, queryDelete, id)
	if err != nil {
		return &db.Error{Op: db.OpDelete, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &db.Error{Op: db.OpDelete, Err: err}
	}
	if n == 0 {
		return db.ErrNotFound
	}
	return nil
}
