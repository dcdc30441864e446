package service

import (
	"context"
	"time"

	"cityquest/internal/model"

	lru "github.com/hashicorp/golang-lru"
)

type cachedPoint struct {
	point     *model.Point
	fetchedAt time.Time
}

// PointService reads points of interest through a small TTL cache. Points are
// admin-managed reference data that changes rarely, so a short TTL keeps a
// deactivated point from being checked into for long.
type PointService struct {
	repo  PointRepository
	cache *lru.Cache
	ttl   time.Duration
}

func NewPointService(repo PointRepository, cacheSize int, ttl time.Duration) (*PointService, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}

	return &PointService{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
	}, nil
}

func (s *PointService) GetActivePoint(ctx context.Context, pointID int64) (*model.Point, error) {
	if entry, ok := s.cache.Get(pointID); ok {
		cached := entry.(cachedPoint)
		if time.Since(cached.fetchedAt) < s.ttl {
			return cached.point, nil
		}
		s.cache.Remove(pointID)
	}

	point, err := s.repo.GetActivePoint(ctx, pointID)
	if err != nil {
		return nil, err
	}

	s.cache.Add(pointID, cachedPoint{point: point, fetchedAt: time.Now()})
	return point, nil
}

func (s *PointService) ListActivePoints(ctx context.Context) ([]*model.Point, error) {
	return s.repo.ListActivePoints(ctx)
}
