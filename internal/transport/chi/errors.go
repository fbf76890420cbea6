package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mediacat/internal/domain"
)

// ErrorCode is the machine-readable error code in API error bodies.
type ErrorCode string

// Error codes returned by the API.
const (
	CodeBadRequest           ErrorCode = "bad_request"
	CodeValidationFailed     ErrorCode = "validation_failed"
	CodeNotFound             ErrorCode = "not_found"
	CodeConflict             ErrorCode = "conflict"
	CodeInvalidSortKey       ErrorCode = "invalid_sort_key"
	CodeInvalidSortOrder     ErrorCode = "invalid_sort_order"
	CodeInvalidPagination    ErrorCode = "invalid_pagination"
	CodeInvalidFilter        ErrorCode = "invalid_filter"
	CodeUnsupportedMediaType ErrorCode = "unsupported_media_type"
	CodePayloadTooLarge      ErrorCode = "payload_too_large"
	CodeInternalError        ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		fieldErrorHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, CodeConflict),
		sentinelHandler(domain.ErrInvalidRecord, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrInvalidSortKey, http.StatusBadRequest, CodeInvalidSortKey),
		sentinelHandler(domain.ErrInvalidSortOrder, http.StatusBadRequest, CodeInvalidSortOrder),
		sentinelHandler(domain.ErrInvalidPagination, http.StatusBadRequest, CodeInvalidPagination),
		sentinelHandler(domain.ErrInvalidFilter, http.StatusBadRequest, CodeInvalidFilter),
		sentinelHandler(domain.ErrEmptyUpload, http.StatusBadRequest, CodeBadRequest),
		sentinelHandler(domain.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType, CodeUnsupportedMediaType),
		sentinelHandler(domain.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge, CodePayloadTooLarge),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// Request-parameter sentinels carry safe detail, so the full message is returned.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		msg := sentinel.Error()
		if status != http.StatusNotFound {
			msg = err.Error()
		}
		writeError(w, status, code, msg)
		return true
	}
}

// fieldErrorHandler reports which record field failed validation.
func fieldErrorHandler(w http.ResponseWriter, err error) bool {
	var fe *domain.FieldError
	if !errors.As(err, &fe) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"code":    CodeValidationFailed,
		"message": fe.Error(),
		"field":   fe.Field,
	})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.loggerFor(r)
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
