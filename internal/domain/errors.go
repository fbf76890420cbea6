package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing record.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals an insert under an id that is already taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidRecord signals a record or patch that failed validation.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrInvalidSortKey signals a sort key that does not name a sortable attribute.
	ErrInvalidSortKey = errors.New("invalid sort key")
	// ErrInvalidSortOrder signals a sort order other than ascending/descending.
	ErrInvalidSortOrder = errors.New("invalid sort order")
	// ErrInvalidPagination signals page < 1 or page size <= 0.
	ErrInvalidPagination = errors.New("invalid pagination")
	// ErrInvalidFilter signals a malformed filter value in an incoming request.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrUnsupportedMediaType signals an upload whose content type is not allowed.
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	// ErrPayloadTooLarge signals an upload over the configured size limit.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrEmptyUpload signals a missing or zero-length upload.
	ErrEmptyUpload = errors.New("no file uploaded")
)

// FieldError wraps ErrInvalidRecord with the offending field name.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidRecord.Error(), e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrInvalidRecord }

// NewFieldError creates a record validation error for a single field.
func NewFieldError(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}
