package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/domain/events"
	"github.com/gatherly/server/internal/domain/fault"
	"github.com/jackc/pgx/v5"
)

var _ events.Repository = (*EventRepository)(nil)

const eventColumns = `id, annotation, description, title, category_id, initiator_id,
       event_date, created_at, published_at, lat, lon, paid,
       participant_limit, request_moderation, state`

func (r *EventRepository) Create(ctx context.Context, event events.Event) (*events.Event, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO events (annotation, description, title, category_id, initiator_id,
                    event_date, created_at, lat, lon, paid,
                    participant_limit, request_moderation, state)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING `+eventColumns,
		event.Annotation,
		event.Description,
		event.Title,
		event.CategoryID,
		event.InitiatorID,
		event.EventDate,
		event.CreatedAt,
		event.Location.Lat,
		event.Location.Lon,
		event.Paid,
		event.ParticipantLimit,
		event.RequestModeration,
		string(event.State),
	)
	created, err := scanEvent(row)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return created, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*events.Event, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	event, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fault.NotFoundf("event %d is not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) GetByInitiator(ctx context.Context, initiatorID, eventID int64) (*events.Event, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1 AND initiator_id = $2`,
		eventID, initiatorID)
	event, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fault.NotFoundf("no event %d from user %d was found", eventID, initiatorID)
	}
	if err != nil {
		return nil, fmt.Errorf("get event by initiator: %w", err)
	}
	return event, nil
}

func (r *EventRepository) Update(ctx context.Context, event events.Event) (*events.Event, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE events
   SET annotation = $2, description = $3, title = $4, category_id = $5,
       event_date = $6, published_at = $7, lat = $8, lon = $9, paid = $10,
       participant_limit = $11, request_moderation = $12, state = $13
 WHERE id = $1
RETURNING `+eventColumns,
		event.ID,
		event.Annotation,
		event.Description,
		event.Title,
		event.CategoryID,
		event.EventDate,
		event.PublishedAt,
		event.Location.Lat,
		event.Location.Lon,
		event.Paid,
		event.ParticipantLimit,
		event.RequestModeration,
		string(event.State),
	)
	updated, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fault.NotFoundf("event %d is not found", event.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (r *EventRepository) ListByInitiator(ctx context.Context, initiatorID int64, page pagination.Page) ([]events.Event, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE initiator_id = $1
 ORDER BY id ASC
OFFSET $2 LIMIT $3`,
		initiatorID, page.From, page.Size)
	if err != nil {
		return nil, fmt.Errorf("list events by initiator: %w", err)
	}
	return collectEvents(rows)
}

func (r *EventRepository) ListPublished(ctx context.Context, filters events.PublicFilters, now time.Time, page pagination.Page) ([]events.Event, error) {
	rangeStart := now
	if filters.RangeStart != nil {
		rangeStart = *filters.RangeStart
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE state = 'PUBLISHED'
   AND event_date > $1
   AND ($2::timestamptz IS NULL OR event_date < $2::timestamptz)
   AND ($3 = '' OR annotation ILIKE '%' || $3 || '%' OR description ILIKE '%' || $3 || '%')
   AND (coalesce(cardinality($4::bigint[]), 0) = 0 OR category_id = ANY($4::bigint[]))
   AND ($5::boolean IS NULL OR paid = $5::boolean)
   AND (NOT $6::boolean OR participant_limit >= 0)
 ORDER BY event_date ASC, id ASC
OFFSET $7 LIMIT $8`,
		rangeStart,
		filters.RangeEnd,
		filters.Text,
		int64Array(filters.Categories),
		filters.Paid,
		filters.OnlyAvailable,
		page.From,
		page.Size,
	)
	if err != nil {
		return nil, fmt.Errorf("list published events: %w", err)
	}
	return collectEvents(rows)
}

func (r *EventRepository) ListAdmin(ctx context.Context, filters events.AdminFilters, page pagination.Page) ([]events.Event, error) {
	states := make([]string, 0, len(filters.States))
	for _, state := range filters.States {
		states = append(states, string(state))
	}
	var stateArray any
	if len(states) > 0 {
		stateArray = states
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE (coalesce(cardinality($1::bigint[]), 0) = 0 OR initiator_id = ANY($1::bigint[]))
   AND (coalesce(cardinality($2::text[]), 0) = 0 OR state = ANY($2::text[]))
   AND (coalesce(cardinality($3::bigint[]), 0) = 0 OR category_id = ANY($3::bigint[]))
   AND ($4::timestamptz IS NULL OR event_date >= $4::timestamptz)
   AND ($5::timestamptz IS NULL OR event_date <= $5::timestamptz)
 ORDER BY id ASC
OFFSET $6 LIMIT $7`,
		int64Array(filters.Users),
		stateArray,
		int64Array(filters.Categories),
		filters.RangeStart,
		filters.RangeEnd,
		page.From,
		page.Size,
	)
	if err != nil {
		return nil, fmt.Errorf("list admin events: %w", err)
	}
	return collectEvents(rows)
}

func (r *EventRepository) AnyByCategory(ctx context.Context, categoryID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM events WHERE category_id = $1)`, categoryID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check events by category: %w", err)
	}
	return exists, nil
}

func int64Array(values []int64) any {
	if len(values) == 0 {
		return nil
	}
	return values
}

func scanEvent(row pgx.Row) (*events.Event, error) {
	var event events.Event
	var state string
	if err := row.Scan(
		&event.ID,
		&event.Annotation,
		&event.Description,
		&event.Title,
		&event.CategoryID,
		&event.InitiatorID,
		&event.EventDate,
		&event.CreatedAt,
		&event.PublishedAt,
		&event.Location.Lat,
		&event.Location.Lon,
		&event.Paid,
		&event.ParticipantLimit,
		&event.RequestModeration,
		&state,
	); err != nil {
		return nil, err
	}
	event.State = events.State(state)
	return &event, nil
}

func collectEvents(rows pgx.Rows) ([]events.Event, error) {
	defer rows.Close()
	var items []events.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		items = append(items, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return items, nil
}
