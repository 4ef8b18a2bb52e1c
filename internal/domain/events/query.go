package events

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/domain/fault"
	"github.com/gatherly/server/internal/stats"
	"github.com/rs/zerolog"
)

// eventURIPrefix is the public URI shape hits are recorded under; view
// counts come back keyed by the numeric id parsed from this suffix.
const eventURIPrefix = "/events/"

// Projection is an event joined with its read-side counters.
type Projection struct {
	Event
	ConfirmedRequests int
	Views             int64
}

// QueryService builds the read-side listings: events joined with view
// counts from the view counter and confirmed-request counts from the
// admission engine.
type QueryService struct {
	repo      Repository
	views     stats.ViewCounter
	confirmed ConfirmedCounter
	appName   string
}

func NewQueryService(repo Repository, views stats.ViewCounter, confirmed ConfirmedCounter, appName string) *QueryService {
	return &QueryService{repo: repo, views: views, confirmed: confirmed, appName: appName}
}

// ListPublished lists published, future-dated events. It records a hit for
// the incoming request as a side effect; a view-counter failure is logged
// and never fails the read.
func (s *QueryService) ListPublished(ctx context.Context, filters PublicFilters, page pagination.Page, requestURI, clientIP string) ([]Projection, error) {
	if filters.RangeStart != nil && filters.RangeEnd != nil && filters.RangeEnd.Before(*filters.RangeStart) {
		return nil, fault.Validationf("range end must be after range start")
	}

	s.recordHit(ctx, requestURI, clientIP)

	items, err := s.repo.ListPublished(ctx, filters, time.Now(), page)
	if err != nil {
		return nil, fmt.Errorf("list published events: %w", err)
	}
	return s.project(ctx, items)
}

// GetPublishedDetail returns one published event with its counters,
// reporting NotFound for any other state. The hit for the detail page is
// recorded before the lookup so missing ids still count as traffic.
func (s *QueryService) GetPublishedDetail(ctx context.Context, eventID int64, requestURI, clientIP string) (*Projection, error) {
	s.recordHit(ctx, requestURI, clientIP)

	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.State != StatePublished {
		return nil, fault.NotFoundf("event %d is not published", eventID)
	}
	projected, err := s.project(ctx, []Event{*event})
	if err != nil {
		return nil, err
	}
	return &projected[0], nil
}

// ListAdmin is the administrative listing: no state restriction, confirmed
// counts attached, no hit recording.
func (s *QueryService) ListAdmin(ctx context.Context, filters AdminFilters, page pagination.Page) ([]Projection, error) {
	items, err := s.repo.ListAdmin(ctx, filters, page)
	if err != nil {
		return nil, fmt.Errorf("list admin events: %w", err)
	}
	return s.project(ctx, items)
}

func (s *QueryService) project(ctx context.Context, items []Event) ([]Projection, error) {
	projections := make([]Projection, len(items))
	for i, event := range items {
		projections[i] = Projection{Event: event}
	}
	if len(items) == 0 {
		return projections, nil
	}

	ids := make([]int64, len(items))
	for i, event := range items {
		ids[i] = event.ID
	}

	confirmed, err := s.confirmed.CountConfirmedByEvents(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count confirmed requests: %w", err)
	}
	for i := range projections {
		projections[i].ConfirmedRequests = confirmed[projections[i].ID]
	}

	for id, hits := range s.viewCounts(ctx, items) {
		for i := range projections {
			if projections[i].ID == id {
				projections[i].Views = hits
			}
		}
	}
	return projections, nil
}

// viewCounts queries the view counter for the events' URIs, unique by
// source address, windowed from the earliest creation time to now. Failures
// degrade to zero counts.
func (s *QueryService) viewCounts(ctx context.Context, items []Event) map[int64]int64 {
	uris := make([]string, len(items))
	earliest := items[0].CreatedAt
	for i, event := range items {
		uris[i] = eventURIPrefix + strconv.FormatInt(event.ID, 10)
		if event.CreatedAt.Before(earliest) {
			earliest = event.CreatedAt
		}
	}

	counts, err := s.views.GetCounts(ctx, earliest, time.Now(), uris, true)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("view counter unavailable; returning zero views")
		return nil
	}

	byID := make(map[int64]int64, len(counts))
	for uri, hits := range counts {
		raw, ok := strings.CutPrefix(uri, eventURIPrefix)
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		byID[id] = hits
	}
	return byID
}

// recordHit reports the incoming request to the view counter. Hit recording
// and the read it accompanies are independent side effects: a counter
// failure is logged and swallowed.
func (s *QueryService) recordHit(ctx context.Context, requestURI, clientIP string) {
	err := s.views.RecordHit(ctx, stats.Hit{
		App:       s.appName,
		URI:       requestURI,
		IP:        clientIP,
		Timestamp: time.Now(),
	})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("uri", requestURI).Msg("record hit failed")
	}
}
