package record

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mediacat/internal/domain"
	domrec "github.com/kailas-cloud/mediacat/internal/domain/record"
	"github.com/kailas-cloud/mediacat/internal/domain/record/patch"
	"github.com/kailas-cloud/mediacat/internal/logger"
)

// maxIDProbes bounds the search for a free id when several records are created in the same millisecond.
const maxIDProbes = 1000

// Service handles record CRUD. Ids are the creation time in Unix milliseconds.
type Service struct {
	repo Repository
	now  func() time.Time
}

// New creates a record service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock replaces the time source (tests, replay).
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Get returns a record by id.
func (s *Service) Get(ctx context.Context, id int64) (domrec.Record, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return domrec.Record{}, fmt.Errorf("get record: %w", err)
	}
	return r, nil
}

// Create validates fields, assigns an id and stores the record.
// The id starts at the creation time in Unix milliseconds and is bumped while taken;
// the store's insert decides between concurrent creators.
func (s *Service) Create(ctx context.Context, f domrec.Fields) (domrec.Record, error) {
	if err := domrec.Validate(f); err != nil {
		return domrec.Record{}, err
	}

	now := s.now().UTC()
	id := now.UnixMilli()
	for range maxIDProbes {
		taken, err := s.repo.Exists(ctx, id)
		if err != nil {
			return domrec.Record{}, fmt.Errorf("allocate id: %w", err)
		}
		if taken {
			id++
			continue
		}

		r, err := domrec.New(id, f, now)
		if err != nil {
			return domrec.Record{}, err
		}
		err = s.repo.Insert(ctx, &r)
		if errors.Is(err, domain.ErrAlreadyExists) {
			id++
			continue
		}
		if err != nil {
			return domrec.Record{}, fmt.Errorf("create record: %w", err)
		}

		logger.FromContext(ctx).Debug("record created", zap.Int64("id", id), zap.String("name", r.Name()))
		return r, nil
	}
	return domrec.Record{}, fmt.Errorf("allocate id: no free id after %d probes from %d", maxIDProbes, now.UnixMilli())
}

// Update merges p into the stored record and stamps updatedAt.
// A record deleted between the read and the write stays deleted.
func (s *Service) Update(ctx context.Context, id int64, p patch.Patch) (domrec.Record, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return domrec.Record{}, fmt.Errorf("get record: %w", err)
	}

	next, err := p.Apply(current, s.now().UTC())
	if err != nil {
		return domrec.Record{}, err
	}
	if err := s.repo.Replace(ctx, &next); err != nil {
		return domrec.Record{}, fmt.Errorf("update record: %w", err)
	}

	logger.FromContext(ctx).Debug("record updated", zap.Int64("id", id))
	return next, nil
}

// Delete removes a record.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	logger.FromContext(ctx).Debug("record deleted", zap.Int64("id", id))
	return nil
}
