package stats

import (
	"context"
	"testing"
	"time"

	"github.com/gatherly/server/internal/domain/fault"
	"github.com/stretchr/testify/require"
)

type memHitStore struct {
	hits []Hit
}

func (s *memHitStore) SaveHit(_ context.Context, hit Hit) error {
	s.hits = append(s.hits, hit)
	return nil
}

func (s *memHitStore) CountHits(_ context.Context, start, end time.Time, uris []string, unique bool) ([]ViewCount, error) {
	type key struct {
		app string
		uri string
	}
	seen := make(map[key]map[string]bool)
	totals := make(map[key]int64)
	for _, hit := range s.hits {
		if hit.Timestamp.Before(start) || hit.Timestamp.After(end) {
			continue
		}
		if len(uris) > 0 && !containsString(uris, hit.URI) {
			continue
		}
		k := key{app: hit.App, uri: hit.URI}
		if unique {
			if seen[k] == nil {
				seen[k] = make(map[string]bool)
			}
			if seen[k][hit.IP] {
				continue
			}
			seen[k][hit.IP] = true
		}
		totals[k]++
	}
	var counts []ViewCount
	for k, hits := range totals {
		counts = append(counts, ViewCount{App: k.app, URI: k.uri, Hits: hits})
	}
	return counts, nil
}

func containsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

func TestRecordHitValidatesBlankFields(t *testing.T) {
	service := NewService(&memHitStore{})

	err := service.RecordHit(context.Background(), Hit{App: "", URI: "/events/1", IP: "10.0.0.1"})
	var validation *fault.ValidationError
	require.ErrorAs(t, err, &validation)

	err = service.RecordHit(context.Background(), Hit{App: "gatherly-server", URI: "  ", IP: "10.0.0.1"})
	require.ErrorAs(t, err, &validation)
}

func TestRecordHitDefaultsTimestamp(t *testing.T) {
	store := &memHitStore{}
	service := NewService(store)

	err := service.RecordHit(context.Background(), Hit{App: "gatherly-server", URI: "/events/1", IP: "10.0.0.1"})

	require.NoError(t, err)
	require.Len(t, store.hits, 1)
	require.WithinDuration(t, time.Now(), store.hits[0].Timestamp, time.Minute)
}

func TestGetCountsUnique(t *testing.T) {
	store := &memHitStore{}
	service := NewService(store)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, ip := range []string{"10.0.0.1", "10.0.0.1", "10.0.0.2"} {
		require.NoError(t, service.RecordHit(context.Background(), Hit{
			App: "gatherly-server", URI: "/events/1", IP: ip, Timestamp: base,
		}))
	}

	counts, err := service.GetCounts(context.Background(), base.Add(-time.Hour), base.Add(time.Hour), []string{"/events/1"}, true)
	require.NoError(t, err)
	require.EqualValues(t, 2, counts["/events/1"])

	counts, err = service.GetCounts(context.Background(), base.Add(-time.Hour), base.Add(time.Hour), []string{"/events/1"}, false)
	require.NoError(t, err)
	require.EqualValues(t, 3, counts["/events/1"])
}

func TestGetCountsFiltersWindowAndURIs(t *testing.T) {
	store := &memHitStore{}
	service := NewService(store)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, service.RecordHit(context.Background(), Hit{App: "a", URI: "/events/1", IP: "1", Timestamp: base}))
	require.NoError(t, service.RecordHit(context.Background(), Hit{App: "a", URI: "/events/2", IP: "1", Timestamp: base}))
	require.NoError(t, service.RecordHit(context.Background(), Hit{App: "a", URI: "/events/1", IP: "1", Timestamp: base.Add(48 * time.Hour)}))

	counts, err := service.GetCounts(context.Background(), base.Add(-time.Hour), base.Add(time.Hour), []string{"/events/1"}, false)

	require.NoError(t, err)
	require.EqualValues(t, 1, counts["/events/1"])
	require.NotContains(t, counts, "/events/2")
}

func TestGetCountsInvertedWindow(t *testing.T) {
	service := NewService(&memHitStore{})
	now := time.Now()

	_, err := service.GetCounts(context.Background(), now, now.Add(-time.Hour), nil, false)

	var validation *fault.ValidationError
	require.ErrorAs(t, err, &validation)
}
