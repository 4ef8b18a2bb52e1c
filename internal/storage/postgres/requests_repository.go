package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatherly/server/internal/domain/fault"
	"github.com/gatherly/server/internal/domain/requests"
	"github.com/jackc/pgx/v5"
)

var _ requests.Repository = (*RequestRepository)(nil)

const requestColumns = `id, event_id, requester_id, created_at, status`

// WithEventLock wraps fn in a transaction that first takes a row lock on
// the event, so concurrent admissions against the same event serialize on
// the database rather than racing the capacity check.
func (r *RequestRepository) WithEventLock(ctx context.Context, eventID int64, fn func(ctx context.Context, tx requests.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin request transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var locked int64
	err = tx.QueryRow(ctx, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, eventID).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return fault.NotFoundf("event %d is not found", eventID)
	}
	if err != nil {
		return fmt.Errorf("lock event %d: %w", eventID, err)
	}

	if err := fn(ctx, &requestTx{db: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit request transaction: %w", err)
	}
	return nil
}

func (r *RequestRepository) GetByIDAndRequester(ctx context.Context, requestID, requesterID int64) (*requests.Request, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE id = $1 AND requester_id = $2`,
		requestID, requesterID)
	request, err := scanRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fault.NotFoundf("request %d from user %d is not found", requestID, requesterID)
	}
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	return request, nil
}

func (r *RequestRepository) UpdateStatus(ctx context.Context, requestID int64, status requests.Status) (*requests.Request, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE requests SET status = $2 WHERE id = $1 RETURNING `+requestColumns,
		requestID, string(status))
	request, err := scanRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fault.NotFoundf("request %d is not found", requestID)
	}
	if err != nil {
		return nil, fmt.Errorf("update request status: %w", err)
	}
	return request, nil
}

func (r *RequestRepository) ListByRequester(ctx context.Context, requesterID int64) ([]requests.Request, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE requester_id = $1 ORDER BY id ASC`,
		requesterID)
	if err != nil {
		return nil, fmt.Errorf("list requests by requester: %w", err)
	}
	return collectRequests(rows)
}

func (r *RequestRepository) ListByEvent(ctx context.Context, eventID int64) ([]requests.Request, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE event_id = $1 ORDER BY id ASC`,
		eventID)
	if err != nil {
		return nil, fmt.Errorf("list requests by event: %w", err)
	}
	return collectRequests(rows)
}

func (r *RequestRepository) CountConfirmedByEvents(ctx context.Context, eventIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}
	rows, err := r.pool.Query(ctx, `
SELECT event_id, COUNT(*)
  FROM requests
 WHERE event_id = ANY($1::bigint[]) AND status = 'CONFIRMED'
 GROUP BY event_id`, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("count confirmed requests: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var eventID int64
		var count int
		if err := rows.Scan(&eventID, &count); err != nil {
			return nil, fmt.Errorf("scan confirmed count: %w", err)
		}
		counts[eventID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate confirmed counts: %w", err)
	}
	return counts, nil
}

// requestTx runs the locked slice of the request store on an open pgx
// transaction.
type requestTx struct {
	db queryer
}

var _ requests.Tx = (*requestTx)(nil)

func (t *requestTx) CountConfirmed(ctx context.Context, eventID int64) (int, error) {
	var count int
	err := t.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM requests WHERE event_id = $1 AND status = 'CONFIRMED'`,
		eventID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count confirmed requests: %w", err)
	}
	return count, nil
}

func (t *requestTx) Exists(ctx context.Context, eventID, requesterID int64) (bool, error) {
	var exists bool
	err := t.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM requests WHERE event_id = $1 AND requester_id = $2)`,
		eventID, requesterID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check request existence: %w", err)
	}
	return exists, nil
}

func (t *requestTx) Create(ctx context.Context, request requests.Request) (*requests.Request, error) {
	row := t.db.QueryRow(ctx, `
INSERT INTO requests (event_id, requester_id, created_at, status)
VALUES ($1, $2, $3, $4)
RETURNING `+requestColumns,
		request.EventID, request.RequesterID, request.CreatedAt, string(request.Status))
	created, err := scanRequest(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fault.Conflictf("request from user %d for event %d already exists",
				request.RequesterID, request.EventID)
		}
		return nil, fmt.Errorf("insert request: %w", err)
	}
	return created, nil
}

func (t *requestTx) FindByEventAndIDs(ctx context.Context, eventID int64, ids []int64) ([]requests.Request, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := t.db.Query(ctx, `
SELECT `+requestColumns+`
  FROM requests
 WHERE event_id = $1 AND id = ANY($2::bigint[])
 ORDER BY array_position($2::bigint[], id)`, eventID, ids)
	if err != nil {
		return nil, fmt.Errorf("find requests by ids: %w", err)
	}
	return collectRequests(rows)
}

func (t *requestTx) UpdateStatuses(ctx context.Context, ids []int64, status requests.Status) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := t.db.Exec(ctx,
		`UPDATE requests SET status = $2 WHERE id = ANY($1::bigint[])`,
		ids, string(status))
	if err != nil {
		return fmt.Errorf("update request statuses: %w", err)
	}
	return nil
}

func scanRequest(row pgx.Row) (*requests.Request, error) {
	var request requests.Request
	var status string
	if err := row.Scan(
		&request.ID,
		&request.EventID,
		&request.RequesterID,
		&request.CreatedAt,
		&status,
	); err != nil {
		return nil, err
	}
	request.Status = requests.Status(status)
	return &request, nil
}

func collectRequests(rows pgx.Rows) ([]requests.Request, error) {
	defer rows.Close()
	var items []requests.Request
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		items = append(items, *request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requests: %w", err)
	}
	return items, nil
}
