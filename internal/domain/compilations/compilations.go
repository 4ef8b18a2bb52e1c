// Package compilations holds curated, optionally pinned collections of
// events shown on the landing surfaces.
package compilations

import (
	"context"
	"fmt"
	"strings"

	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/domain/fault"
)

type Compilation struct {
	ID       int64
	Title    string
	Pinned   bool
	EventIDs []int64
}

type NewCompilation struct {
	Title    string
	Pinned   bool
	EventIDs []int64
}

// UpdateParams is a partial patch; nil fields are left untouched.
type UpdateParams struct {
	Title    *string
	Pinned   *bool
	EventIDs []int64
}

type Repository interface {
	Create(ctx context.Context, compilation Compilation) (*Compilation, error)
	Update(ctx context.Context, compilation Compilation) (*Compilation, error)
	GetByID(ctx context.Context, id int64) (*Compilation, error)
	List(ctx context.Context, pinned *bool, page pagination.Page) ([]Compilation, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, draft NewCompilation) (*Compilation, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return nil, fault.Validationf("title must not be blank")
	}
	return s.repo.Create(ctx, Compilation{
		Title:    draft.Title,
		Pinned:   draft.Pinned,
		EventIDs: draft.EventIDs,
	})
}

func (s *Service) Update(ctx context.Context, id int64, patch UpdateParams) (*Compilation, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, fault.Validationf("title must not be blank")
		}
		current.Title = *patch.Title
	}
	if patch.Pinned != nil {
		current.Pinned = *patch.Pinned
	}
	if patch.EventIDs != nil {
		current.EventIDs = patch.EventIDs
	}
	return s.repo.Update(ctx, *current)
}

func (s *Service) Get(ctx context.Context, id int64) (*Compilation, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns compilations, filtered by pinned state when the filter is
// set.
func (s *Service) List(ctx context.Context, pinned *bool, page pagination.Page) ([]Compilation, error) {
	return s.repo.List(ctx, pinned, page)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete compilation: %w", err)
	}
	return nil
}
