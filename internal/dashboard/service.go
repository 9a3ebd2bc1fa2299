package dashboard

import (
	"context"
	"errors"
	"time"

	"gymdesk/internal/cache"
	"gymdesk/internal/dates"
	"gymdesk/internal/logger"
	"gymdesk/internal/metrics"
)

const statsKey = "dashboard:stats"

type Service interface {
	Stats(ctx context.Context) (*Stats, error)
	Invalidate(ctx context.Context)
}

type service struct {
	repo  Repository
	cache cache.Cache
	ttl   time.Duration
	now   func() time.Time
}

func NewService(repo Repository, c cache.Cache, ttl time.Duration, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, cache: c, ttl: ttl, now: now}
}

// Stats serves the cached read model, recomputing it on a miss. A cache that is
// down degrades to computing on every request.
func (s *service) Stats(ctx context.Context) (*Stats, error) {
	var cached Stats
	err := s.cache.Get(ctx, statsKey, &cached)
	if err == nil {
		metrics.RecordDashboardCache(true)
		return &cached, nil
	}
	metrics.RecordDashboardCache(false)
	if !errors.Is(err, cache.ErrMiss) {
		logger.Warn("dashboard cache read failed", "error", err.Error())
	}

	stats, err := s.repo.Load(ctx, NewWindow(dates.Today(s.now())))
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, statsKey, stats, s.ttl); err != nil {
		logger.Warn("dashboard cache write failed", "error", err.Error())
	}
	return stats, nil
}

// Invalidate drops the cached read model after a write that changes it.
func (s *service) Invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, statsKey); err != nil {
		logger.Warn("dashboard cache invalidation failed", "error", err.Error())
	}
}
