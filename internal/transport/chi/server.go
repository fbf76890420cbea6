package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	healthuc "github.com/kailas-cloud/mediacat/internal/usecase/health"
	homeuc "github.com/kailas-cloud/mediacat/internal/usecase/home"
	queryuc "github.com/kailas-cloud/mediacat/internal/usecase/query"
	recorduc "github.com/kailas-cloud/mediacat/internal/usecase/record"
	uploaduc "github.com/kailas-cloud/mediacat/internal/usecase/upload"
)

// Limits holds the request limits enforced before reaching the services.
type Limits struct {
	DefaultPageSize int
	MaxPageSize     int
}

// Server serves the catalog HTTP API.
type Server struct {
	query         *queryuc.Service
	records       *recorduc.Service
	home          *homeuc.Service
	uploads       *uploaduc.Service
	health        *healthuc.Service
	limits        Limits
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. uploads can be nil, which disables POST /upload.
func NewServer(
	query *queryuc.Service,
	records *recorduc.Service,
	home *homeuc.Service,
	uploads *uploaduc.Service,
	health *healthuc.Service,
	limits Limits,
	logger *zap.Logger,
) *Server {
	if limits.DefaultPageSize <= 0 {
		limits.DefaultPageSize = 10
	}
	if limits.MaxPageSize < limits.DefaultPageSize {
		limits.MaxPageSize = limits.DefaultPageSize
	}
	return &Server{
		query:         query,
		records:       records,
		home:          home,
		uploads:       uploads,
		health:        health,
		limits:        limits,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

func (s *Server) loggerFor(r *http.Request) *zap.Logger {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return s.logger.With(zap.String("request_id", id))
	}
	return s.logger
}
