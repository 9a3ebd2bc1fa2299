package member

import (
	"context"
	"time"

	"gymdesk/internal/dates"
	"gymdesk/internal/logger"
	"gymdesk/internal/metrics"
)

type Service interface {
	RefreshStatuses(ctx context.Context) (int64, error)
	Today() time.Time
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, now: now}
}

func (s *service) Today() time.Time {
	return dates.Today(s.now())
}

// RefreshStatuses is idempotent: a second run with the same date changes nothing.
func (s *service) RefreshStatuses(ctx context.Context) (int64, error) {
	n, err := s.repo.RefreshStatuses(ctx, s.Today())
	if err != nil {
		return 0, err
	}

	if n > 0 {
		metrics.RecordMembersExpired(n)
		logger.Info("members expired", "count", n)
	}
	return n, nil
}
