package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gatherly/server/internal/domain/fault"
)

// Service implements ViewCounter over a hit store.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var _ ViewCounter = (*Service)(nil)

func (s *Service) RecordHit(ctx context.Context, hit Hit) error {
	if strings.TrimSpace(hit.App) == "" {
		return fault.Validationf("app must not be blank")
	}
	if strings.TrimSpace(hit.URI) == "" {
		return fault.Validationf("uri must not be blank")
	}
	if hit.Timestamp.IsZero() {
		hit.Timestamp = time.Now()
	}
	if err := s.repo.SaveHit(ctx, hit); err != nil {
		return fmt.Errorf("save hit: %w", err)
	}
	return nil
}

func (s *Service) GetCounts(ctx context.Context, start, end time.Time, uris []string, unique bool) (map[string]int64, error) {
	if start.After(end) {
		return nil, fault.Validationf("start must not be after end")
	}
	counts, err := s.repo.CountHits(ctx, start, end, uris, unique)
	if err != nil {
		return nil, fmt.Errorf("count hits: %w", err)
	}
	result := make(map[string]int64, len(counts))
	for _, count := range counts {
		result[count.URI] = count.Hits
	}
	return result, nil
}

// Stats returns the raw aggregation, most-viewed first, for the collector's
// read endpoint.
func (s *Service) Stats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]ViewCount, error) {
	if start.After(end) {
		return nil, fault.Validationf("start must not be after end")
	}
	counts, err := s.repo.CountHits(ctx, start, end, uris, unique)
	if err != nil {
		return nil, fmt.Errorf("count hits: %w", err)
	}
	return counts, nil
}
