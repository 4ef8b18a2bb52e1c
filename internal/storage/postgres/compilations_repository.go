package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/domain/compilations"
	"github.com/gatherly/server/internal/domain/fault"
	"github.com/jackc/pgx/v5"
)

var _ compilations.Repository = (*CompilationRepository)(nil)

func (r *CompilationRepository) Create(ctx context.Context, compilation compilations.Compilation) (*compilations.Compilation, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin compilation transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO compilations (title, pinned) VALUES ($1, $2) RETURNING id`,
		compilation.Title, compilation.Pinned).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert compilation: %w", err)
	}
	if err := replaceCompilationEvents(ctx, tx, id, compilation.EventIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit compilation transaction: %w", err)
	}
	compilation.ID = id
	return &compilation, nil
}

func (r *CompilationRepository) Update(ctx context.Context, compilation compilations.Compilation) (*compilations.Compilation, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin compilation transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE compilations SET title = $2, pinned = $3 WHERE id = $1`,
		compilation.ID, compilation.Title, compilation.Pinned)
	if err != nil {
		return nil, fmt.Errorf("update compilation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fault.NotFoundf("compilation %d is not found", compilation.ID)
	}
	if err := replaceCompilationEvents(ctx, tx, compilation.ID, compilation.EventIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit compilation transaction: %w", err)
	}
	return &compilation, nil
}

func (r *CompilationRepository) GetByID(ctx context.Context, id int64) (*compilations.Compilation, error) {
	compilation, err := scanCompilation(r.pool.QueryRow(ctx, `
SELECT c.id, c.title, c.pinned,
       coalesce(array_agg(ce.event_id ORDER BY ce.event_id) FILTER (WHERE ce.event_id IS NOT NULL), '{}')
  FROM compilations c
  LEFT JOIN compilation_events ce ON ce.compilation_id = c.id
 WHERE c.id = $1
 GROUP BY c.id`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fault.NotFoundf("compilation %d is not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get compilation: %w", err)
	}
	return compilation, nil
}

func (r *CompilationRepository) List(ctx context.Context, pinned *bool, page pagination.Page) ([]compilations.Compilation, error) {
	rows, err := r.pool.Query(ctx, `
SELECT c.id, c.title, c.pinned,
       coalesce(array_agg(ce.event_id ORDER BY ce.event_id) FILTER (WHERE ce.event_id IS NOT NULL), '{}')
  FROM compilations c
  LEFT JOIN compilation_events ce ON ce.compilation_id = c.id
 WHERE $1::boolean IS NULL OR c.pinned = $1::boolean
 GROUP BY c.id
 ORDER BY c.id ASC
OFFSET $2 LIMIT $3`,
		pinned, page.From, page.Size)
	if err != nil {
		return nil, fmt.Errorf("list compilations: %w", err)
	}
	defer rows.Close()

	var items []compilations.Compilation
	for rows.Next() {
		compilation, err := scanCompilation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan compilation: %w", err)
		}
		items = append(items, *compilation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate compilations: %w", err)
	}
	return items, nil
}

func (r *CompilationRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM compilations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete compilation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFoundf("compilation %d is not found", id)
	}
	return nil
}

func replaceCompilationEvents(ctx context.Context, tx pgx.Tx, compilationID int64, eventIDs []int64) error {
	if _, err := tx.Exec(ctx,
		`DELETE FROM compilation_events WHERE compilation_id = $1`, compilationID); err != nil {
		return fmt.Errorf("clear compilation events: %w", err)
	}
	if len(eventIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
INSERT INTO compilation_events (compilation_id, event_id)
SELECT $1, unnest($2::bigint[])
ON CONFLICT DO NOTHING`, compilationID, eventIDs)
	if err != nil {
		return fmt.Errorf("link compilation events: %w", err)
	}
	return nil
}

func scanCompilation(row pgx.Row) (*compilations.Compilation, error) {
	var compilation compilations.Compilation
	if err := row.Scan(
		&compilation.ID,
		&compilation.Title,
		&compilation.Pinned,
		&compilation.EventIDs,
	); err != nil {
		return nil, err
	}
	return &compilation, nil
}
