package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/domain/categories"
	"github.com/gatherly/server/internal/domain/fault"
	"github.com/jackc/pgx/v5"
)

var _ categories.Repository = (*CategoryRepository)(nil)

func (r *CategoryRepository) Create(ctx context.Context, category categories.Category) (*categories.Category, error) {
	var created categories.Category
	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id, name`,
		category.Name).Scan(&created.ID, &created.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fault.Uniquef("category with name %q already exists", category.Name)
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return &created, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category categories.Category) (*categories.Category, error) {
	var updated categories.Category
	err := r.pool.QueryRow(ctx,
		`UPDATE categories SET name = $2 WHERE id = $1 RETURNING id, name`,
		category.ID, category.Name).Scan(&updated.ID, &updated.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fault.NotFoundf("category %d is not found", category.ID)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fault.Uniquef("category with name %q already exists", category.Name)
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return &updated, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*categories.Category, error) {
	var category categories.Category
	err := r.pool.QueryRow(ctx,
		`SELECT id, name FROM categories WHERE id = $1`, id).
		Scan(&category.ID, &category.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fault.NotFoundf("category %d is not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &category, nil
}

func (r *CategoryRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check category existence: %w", err)
	}
	return exists, nil
}

func (r *CategoryRepository) List(ctx context.Context, page pagination.Page) ([]categories.Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name FROM categories ORDER BY id ASC OFFSET $1 LIMIT $2`,
		page.From, page.Size)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []categories.Category
	for rows.Next() {
		var category categories.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return items, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fault.NotFoundf("category %d is not found", id)
	}
	return nil
}
