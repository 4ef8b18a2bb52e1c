// Package stats is the page-view counter: it records endpoint hits and
// reports per-URI view counts, optionally deduplicated by source address.
//
// The main server consumes it through the ViewCounter interface, either
// in-process (Service over the hit store) or over HTTP (Client against a
// collector started with "server stats").
package stats

import (
	"context"
	"time"
)

// Hit is one recorded page view.
type Hit struct {
	App       string
	URI       string
	IP        string
	Timestamp time.Time
}

// ViewCount is the aggregated result for one URI.
type ViewCount struct {
	App  string
	URI  string
	Hits int64
}

type ViewCounter interface {
	RecordHit(ctx context.Context, hit Hit) error

	// GetCounts returns hit counts per URI over [start, end]. When unique
	// is set, hits are deduplicated by source address. URIs with no hits
	// are absent from the result.
	GetCounts(ctx context.Context, start, end time.Time, uris []string, unique bool) (map[string]int64, error)
}

// Repository is the durable hit store.
type Repository interface {
	SaveHit(ctx context.Context, hit Hit) error
	CountHits(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]ViewCount, error)
}
