// Package categories holds the event category registry. Category names are
// unique; a category referenced by any event cannot be deleted.
package categories

import (
	"context"
	"fmt"
	"strings"

	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/domain/fault"
)

type Category struct {
	ID   int64
	Name string
}

type Repository interface {
	// Create persists a new category. A duplicate name surfaces as a
	// fault.UniquenessError.
	Create(ctx context.Context, category Category) (*Category, error)
	Update(ctx context.Context, category Category) (*Category, error)
	GetByID(ctx context.Context, id int64) (*Category, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, page pagination.Page) ([]Category, error)
	Delete(ctx context.Context, id int64) error
}

// EventChecker reports whether any event references a category.
type EventChecker interface {
	AnyByCategory(ctx context.Context, categoryID int64) (bool, error)
}

type Service struct {
	repo   Repository
	events EventChecker
}

func NewService(repo Repository, events EventChecker) *Service {
	return &Service{repo: repo, events: events}
}

func (s *Service) Create(ctx context.Context, name string) (*Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fault.Validationf("name must not be blank")
	}
	return s.repo.Create(ctx, Category{Name: name})
}

func (s *Service) Update(ctx context.Context, id int64, name string) (*Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fault.Validationf("name must not be blank")
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	current.Name = name
	return s.repo.Update(ctx, *current)
}

func (s *Service) Get(ctx context.Context, id int64) (*Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, page pagination.Page) ([]Category, error) {
	return s.repo.List(ctx, page)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	inUse, err := s.events.AnyByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("check category usage: %w", err)
	}
	if inUse {
		return fault.Conflictf("category %d is used by existing events", id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// Exists satisfies events.CategoryLookup.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}
