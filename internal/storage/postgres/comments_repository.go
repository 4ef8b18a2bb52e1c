package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/domain/comments"
	"github.com/gatherly/server/internal/domain/fault"
	"github.com/jackc/pgx/v5"
)

var _ comments.Repository = (*CommentRepository)(nil)

const commentColumns = `id, event_id, author_id, text, created_at, edited`

func (r *CommentRepository) Create(ctx context.Context, comment comments.Comment) (*comments.Comment, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO comments (event_id, author_id, text, created_at, edited)
VALUES ($1, $2, $3, $4, $5)
RETURNING `+commentColumns,
		comment.EventID, comment.AuthorID, comment.Text, comment.CreatedAt, comment.Edited)
	created, err := scanComment(row)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return created, nil
}

func (r *CommentRepository) Update(ctx context.Context, comment comments.Comment) (*comments.Comment, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE comments SET text = $2, edited = $3 WHERE id = $1 RETURNING `+commentColumns,
		comment.ID, comment.Text, comment.Edited)
	updated, err := scanComment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fault.NotFoundf("comment %d is not found", comment.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return updated, nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*comments.Comment, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)
	comment, err := scanComment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fault.NotFoundf("comment %d is not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return comment, nil
}

func (r *CommentRepository) GetByAuthor(ctx context.Context, authorID, commentID int64) (*comments.Comment, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = $1 AND author_id = $2`,
		commentID, authorID)
	comment, err := scanComment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fault.NotFoundf("comment %d from user %d is not found", commentID, authorID)
	}
	if err != nil {
		return nil, fmt.Errorf("get comment by author: %w", err)
	}
	return comment, nil
}

func (r *CommentRepository) ListByAuthor(ctx context.Context, authorID int64) ([]comments.Comment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE author_id = $1 ORDER BY created_at DESC, id DESC`,
		authorID)
	if err != nil {
		return nil, fmt.Errorf("list comments by author: %w", err)
	}
	return collectComments(rows)
}

func (r *CommentRepository) ListByEvent(ctx context.Context, eventID int64, page pagination.Page) ([]comments.Comment, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+commentColumns+`
  FROM comments
 WHERE event_id = $1
 ORDER BY created_at DESC, id DESC
OFFSET $2 LIMIT $3`,
		eventID, page.From, page.Size)
	if err != nil {
		return nil, fmt.Errorf("list comments by event: %w", err)
	}
	return collectComments(rows)
}

func (r *CommentRepository) SearchText(ctx context.Context, text string, page pagination.Page) ([]comments.Comment, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+commentColumns+`
  FROM comments
 WHERE text ILIKE '%' || $1 || '%'
 ORDER BY created_at DESC, id DESC
OFFSET $2 LIMIT $3`,
		text, page.From, page.Size)
	if err != nil {
		return nil, fmt.Errorf("search comments: %w", err)
	}
	return collectComments(rows)
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFoundf("comment %d is not found", id)
	}
	return nil
}

func scanComment(row pgx.Row) (*comments.Comment, error) {
	var comment comments.Comment
	if err := row.Scan(
		&comment.ID,
		&comment.EventID,
		&comment.AuthorID,
		&comment.Text,
		&comment.CreatedAt,
		&comment.Edited,
	); err != nil {
		return nil, err
	}
	return &comment, nil
}

func collectComments(rows pgx.Rows) ([]comments.Comment, error) {
	defer rows.Close()
	var items []comments.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, *comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return items, nil
}
