package db

import "errors"

// Sentinel errors for storage operations.
var (
	ErrNotFound  = errors.New("db: document not found")
	ErrCorrupted = errors.New("db: corrupted document")
	ErrConflict  = errors.New("db: document already exists")
)

// Op names carried by Error for diagnostics.
const (
	OpOpen    = "OPEN"
	OpMigrate = "MIGRATE"
	OpList    = "LIST"
	OpGet     = "GET"
	OpExists  = "EXISTS"
	OpInsert  = "INSERT"
	OpReplace = "REPLACE"
	OpDelete  = "DELETE"
	OpSeq     = "SEQ"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
