package postgres

import (
	"context"
	"fmt"

	"github.com/gatherly/server/internal/domain/categories"
	"github.com/gatherly/server/internal/domain/comments"
	"github.com/gatherly/server/internal/domain/compilations"
	"github.com/gatherly/server/internal/domain/events"
	"github.com/gatherly/server/internal/domain/requests"
	"github.com/gatherly/server/internal/domain/users"
	"github.com/gatherly/server/internal/stats"
	"github.com/gatherly/server/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// queryer is satisfied by both pgxpool.Pool and pgx.Tx so repositories run
// the same SQL inside and outside a transaction.
type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

var _ storage.Repository = (*Repository)(nil)

func NewRepository(pool *pgxpool.Pool) (*Repository, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres repository: pool is nil")
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Events() events.Repository {
	return &EventRepository{pool: r.pool}
}

func (r *Repository) Requests() requests.Repository {
	return &RequestRepository{pool: r.pool}
}

func (r *Repository) Categories() categories.Repository {
	return &CategoryRepository{pool: r.pool}
}

func (r *Repository) Users() users.Repository {
	return &UserRepository{pool: r.pool}
}

func (r *Repository) Compilations() compilations.Repository {
	return &CompilationRepository{pool: r.pool}
}

func (r *Repository) Comments() comments.Repository {
	return &CommentRepository{pool: r.pool}
}

func (r *Repository) Stats() stats.Repository {
	return &StatsRepository{pool: r.pool}
}

type EventRepository struct {
	pool *pgxpool.Pool
}

type RequestRepository struct {
	pool *pgxpool.Pool
}

type CategoryRepository struct {
	pool *pgxpool.Pool
}

type UserRepository struct {
	pool *pgxpool.Pool
}

type CompilationRepository struct {
	pool *pgxpool.Pool
}

type CommentRepository struct {
	pool *pgxpool.Pool
}

type StatsRepository struct {
	pool *pgxpool.Pool
}
