// Package comments holds user comments on published events. Authors may
// edit their own comment within an hour of posting; admins may delete any
// comment.
package comments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/domain/events"
	"github.com/gatherly/server/internal/domain/fault"
)

// EditWindow is how long after creation the author may still edit.
const EditWindow = time.Hour

type Comment struct {
	ID        int64
	EventID   int64
	AuthorID  int64
	Text      string
	CreatedAt time.Time
	Edited    bool
}

type Repository interface {
	Create(ctx context.Context, comment Comment) (*Comment, error)
	Update(ctx context.Context, comment Comment) (*Comment, error)
	GetByID(ctx context.Context, id int64) (*Comment, error)
	GetByAuthor(ctx context.Context, authorID, commentID int64) (*Comment, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]Comment, error)
	ListByEvent(ctx context.Context, eventID int64, page pagination.Page) ([]Comment, error)
	SearchText(ctx context.Context, text string, page pagination.Page) ([]Comment, error)
	Delete(ctx context.Context, id int64) error
}

type EventSource interface {
	GetByID(ctx context.Context, id int64) (*events.Event, error)
}

type UserLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	repo   Repository
	events EventSource
	users  UserLookup
}

func NewService(repo Repository, eventSource EventSource, users UserLookup) *Service {
	return &Service{repo: repo, events: eventSource, users: users}
}

func (s *Service) Create(ctx context.Context, authorID, eventID int64, text string) (*Comment, error) {
	if err := s.checkUser(ctx, authorID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fault.Validationf("comment must not be blank")
	}
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.State != events.StatePublished {
		return nil, fault.NotFoundf("event %d is not published", eventID)
	}
	return s.repo.Create(ctx, Comment{
		EventID:   eventID,
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: time.Now(),
	})
}

func (s *Service) Update(ctx context.Context, authorID, commentID int64, text string) (*Comment, error) {
	if err := s.checkUser(ctx, authorID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fault.Validationf("comment must not be blank")
	}
	comment, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != authorID {
		return nil, fault.Validationf("user %d is not the author of comment %d", authorID, commentID)
	}
	if time.Since(comment.CreatedAt) > EditWindow {
		return nil, fault.Conflictf("comment %d can only be edited within %s of posting", commentID, EditWindow)
	}
	comment.Text = text
	comment.Edited = true
	return s.repo.Update(ctx, *comment)
}

func (s *Service) GetOwn(ctx context.Context, authorID, commentID int64) (*Comment, error) {
	if err := s.checkUser(ctx, authorID); err != nil {
		return nil, err
	}
	return s.repo.GetByAuthor(ctx, authorID, commentID)
}

func (s *Service) ListOwn(ctx context.Context, authorID int64) ([]Comment, error) {
	if err := s.checkUser(ctx, authorID); err != nil {
		return nil, err
	}
	return s.repo.ListByAuthor(ctx, authorID)
}

func (s *Service) ListForEvent(ctx context.Context, eventID int64, page pagination.Page) ([]Comment, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListByEvent(ctx, eventID, page)
}

// Search finds comments containing the text, case-insensitive. Blank text
// matches nothing.
func (s *Service) Search(ctx context.Context, text string, page pagination.Page) ([]Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return s.repo.SearchText(ctx, text, page)
}

func (s *Service) Delete(ctx context.Context, authorID, commentID int64) error {
	if err := s.checkUser(ctx, authorID); err != nil {
		return err
	}
	comment, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != authorID {
		return fault.Validationf("user %d is not the author of comment %d", authorID, commentID)
	}
	if err := s.repo.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (s *Service) DeleteByAdmin(ctx context.Context, commentID int64) error {
	if _, err := s.repo.GetByID(ctx, commentID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (s *Service) checkUser(ctx context.Context, id int64) error {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !ok {
		return fault.NotFoundf("user %d is not found", id)
	}
	return nil
}
