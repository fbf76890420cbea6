package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mediacat/internal/domain"
	domquery "github.com/kailas-cloud/mediacat/internal/domain/query"
	"github.com/kailas-cloud/mediacat/internal/logger"
	"github.com/kailas-cloud/mediacat/internal/metrics"
)

// Service answers catalog queries against the current storage snapshot.
type Service struct {
	records Snapshotter
	engine  *Engine
}

// New creates a query service.
func New(records Snapshotter, engine *Engine) *Service {
	return &Service{records: records, engine: engine}
}

// Query loads a snapshot and runs the engine over it.
func (s *Service) Query(ctx context.Context, req domquery.Request) (domquery.Page, error) {
	start := time.Now()

	// Reject bad parameters before paying for a snapshot.
	if err := req.Validate(); err != nil {
		metrics.QueryErrorsTotal.WithLabelValues(errorReason(err)).Inc()
		return domquery.Page{}, err
	}

	snapshot, err := s.records.Snapshot(ctx)
	if err != nil {
		metrics.QueryErrorsTotal.WithLabelValues("storage").Inc()
		metrics.QueryDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return domquery.Page{}, fmt.Errorf("load snapshot: %w", err)
	}
	metrics.StoredRecords.Set(float64(len(snapshot)))

	page, err := s.engine.Execute(snapshot, req)
	if err != nil {
		metrics.QueryErrorsTotal.WithLabelValues(errorReason(err)).Inc()
		metrics.QueryDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return domquery.Page{}, fmt.Errorf("execute query: %w", err)
	}

	elapsed := time.Since(start)
	metrics.QueryDuration.WithLabelValues("ok").Observe(elapsed.Seconds())
	metrics.QueryMatchedRecords.Observe(float64(page.Pagination.Total))

	logger.FromContext(ctx).Debug("query executed",
		zap.Int("snapshot", len(snapshot)),
		zap.Bool("fuzzy", req.HasNameQuery()),
		zap.String("sort", string(req.SortKey)),
		zap.Int("total", page.Pagination.Total),
		zap.Int("page", page.Pagination.Page),
		zap.Int("items", len(page.Items)),
		zap.Duration("elapsed", elapsed),
	)

	return page, nil
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidSortKey):
		return "invalid_sort_key"
	case errors.Is(err, domain.ErrInvalidSortOrder):
		return "invalid_sort_order"
	case errors.Is(err, domain.ErrInvalidPagination):
		return "invalid_pagination"
	default:
		return "internal"
	}
}
