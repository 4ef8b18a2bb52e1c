// Package users holds the administrative user registry.
package users

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/domain/fault"
)

type User struct {
	ID    int64
	Name  string
	Email string
}

type Repository interface {
	// Create persists a new user. A duplicate email surfaces as a
	// fault.UniquenessError.
	Create(ctx context.Context, user User) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, ids []int64, page pagination.Page) ([]User, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, user User) (*User, error) {
	if strings.TrimSpace(user.Name) == "" {
		return nil, fault.Validationf("name must not be blank")
	}
	if _, err := mail.ParseAddress(user.Email); err != nil {
		return nil, fault.Validationf("email %q is not a valid address", user.Email)
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// List returns all users when ids is empty, otherwise only the named ones.
func (s *Service) List(ctx context.Context, ids []int64, page pagination.Page) ([]User, error) {
	return s.repo.List(ctx, ids, page)
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// Exists satisfies the UserLookup interfaces of the other domains.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}
