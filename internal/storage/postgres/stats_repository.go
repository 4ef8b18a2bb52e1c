package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/gatherly/server/internal/stats"
)

var _ stats.Repository = (*StatsRepository)(nil)

func (r *StatsRepository) SaveHit(ctx context.Context, hit stats.Hit) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO hits (app, uri, ip, request_time) VALUES ($1, $2, $3, $4)`,
		hit.App, hit.URI, hit.IP, hit.Timestamp)
	if err != nil {
		return fmt.Errorf("insert hit: %w", err)
	}
	return nil
}

// CountHits aggregates per app and uri inside the window. With unique set,
// each distinct ip counts once per uri.
func (r *StatsRepository) CountHits(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]stats.ViewCount, error) {
	var uriArray any
	if len(uris) > 0 {
		uriArray = uris
	}
	rows, err := r.pool.Query(ctx, `
SELECT app, uri,
       CASE WHEN $4::boolean THEN COUNT(DISTINCT ip) ELSE COUNT(*) END AS hits
  FROM hits
 WHERE request_time >= $1 AND request_time <= $2
   AND (coalesce(cardinality($3::text[]), 0) = 0 OR uri = ANY($3::text[]))
 GROUP BY app, uri
 ORDER BY hits DESC`,
		start, end, uriArray, unique)
	if err != nil {
		return nil, fmt.Errorf("count hits: %w", err)
	}
	defer rows.Close()

	var counts []stats.ViewCount
	for rows.Next() {
		var count stats.ViewCount
		if err := rows.Scan(&count.App, &count.URI, &count.Hits); err != nil {
			return nil, fmt.Errorf("scan view count: %w", err)
		}
		counts = append(counts, count)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate view counts: %w", err)
	}
	return counts, nil
}
