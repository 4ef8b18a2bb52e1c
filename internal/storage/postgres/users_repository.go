package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/domain/fault"
	"github.com/gatherly/server/internal/domain/users"
	"github.com/jackc/pgx/v5"
)

var _ users.Repository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, user users.User) (*users.User, error) {
	var created users.User
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (name, email) VALUES ($1, $2) RETURNING id, name, email`,
		user.Name, user.Email).Scan(&created.ID, &created.Name, &created.Email)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fault.Uniquef("user with email %q already exists", user.Email)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &created, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*users.User, error) {
	var user users.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email FROM users WHERE id = $1`, id).
		Scan(&user.ID, &user.Name, &user.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fault.NotFoundf("user %d is not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user existence: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) List(ctx context.Context, ids []int64, page pagination.Page) ([]users.User, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, name, email
  FROM users
 WHERE coalesce(cardinality($1::bigint[]), 0) = 0 OR id = ANY($1::bigint[])
 ORDER BY id ASC
OFFSET $2 LIMIT $3`,
		int64Array(ids), page.From, page.Size)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var items []users.User
	for rows.Next() {
		var user users.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		items = append(items, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return items, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFoundf("user %d is not found", id)
	}
	return nil
}
