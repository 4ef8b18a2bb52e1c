package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gatherly/server/internal/api/pagination"
	"github.com/gatherly/server/internal/domain/fault"
)

// Service owns the event lifecycle: creation, owner edits, and
// administrative review. All checks run synchronously and abort on the
// first violation; nothing is retried.
type Service struct {
	repo       Repository
	categories CategoryLookup
	users      UserLookup
}

func NewService(repo Repository, categories CategoryLookup, users UserLookup) *Service {
	return &Service{repo: repo, categories: categories, users: users}
}

// NewEvent is the draft a user submits to create an event.
type NewEvent struct {
	Annotation        string
	Description       string
	Title             string
	CategoryID        int64
	EventDate         time.Time
	Location          Location
	Paid              bool
	ParticipantLimit  int
	RequestModeration bool
}

// UpdateParams is a partial patch. Nil fields are left untouched. Action,
// when set, requests a state transition scoped to the acting role.
type UpdateParams struct {
	Annotation        *string
	Description       *string
	Title             *string
	CategoryID        *int64
	EventDate         *time.Time
	Location          *Location
	Paid              *bool
	ParticipantLimit  *int
	RequestModeration *bool
	Action            StateAction
}

func (s *Service) Create(ctx context.Context, initiatorID int64, draft NewEvent) (*Event, error) {
	if err := s.checkUser(ctx, initiatorID); err != nil {
		return nil, err
	}
	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	if err := checkEventDate(draft.EventDate, MinCreateLead); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, draft.CategoryID); err != nil {
		return nil, err
	}

	event := Event{
		Annotation:        draft.Annotation,
		Description:       draft.Description,
		Title:             draft.Title,
		CategoryID:        draft.CategoryID,
		InitiatorID:       initiatorID,
		EventDate:         draft.EventDate,
		CreatedAt:         time.Now(),
		Location:          draft.Location,
		Paid:              draft.Paid,
		ParticipantLimit:  draft.ParticipantLimit,
		RequestModeration: draft.RequestModeration,
		State:             StatePending,
	}
	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, eventID int64) (*Event, error) {
	return s.repo.GetByID(ctx, eventID)
}

// GetForOwner returns the owner's event, reporting NotFound when the event
// does not exist or belongs to someone else.
func (s *Service) GetForOwner(ctx context.Context, ownerID, eventID int64) (*Event, error) {
	if err := s.checkUser(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.repo.GetByInitiator(ctx, ownerID, eventID)
}

func (s *Service) ListByOwner(ctx context.Context, ownerID int64, page pagination.Page) ([]Event, error) {
	if err := s.checkUser(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListByInitiator(ctx, ownerID, page)
}

// EditByOwner applies a patch on behalf of the event's creator. Published
// events are immutable to their owner; a patch that changes nothing returns
// the stored entity without a write.
func (s *Service) EditByOwner(ctx context.Context, ownerID, eventID int64, patch UpdateParams) (*Event, error) {
	if err := s.checkUser(ctx, ownerID); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByInitiator(ctx, ownerID, eventID)
	if err != nil {
		return nil, err
	}
	if current.State == StatePublished {
		return nil, fault.Conflictf("event %d is published and can no longer be edited", eventID)
	}
	return s.applyUpdate(ctx, *current, patch, ActorOwner, MinCreateLead)
}

// ReviewByAdmin applies an administrative patch: publication, rejection,
// and field edits with the tighter 1-hour date floor.
func (s *Service) ReviewByAdmin(ctx context.Context, eventID int64, patch UpdateParams) (*Event, error) {
	current, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if current.State == StatePublished {
		return nil, fault.Conflictf("event %d is already decided: only pending events can be changed", eventID)
	}
	return s.applyUpdate(ctx, *current, patch, ActorAdmin, MinAdminLead)
}

func (s *Service) applyUpdate(ctx context.Context, current Event, patch UpdateParams, actor Actor, minLead time.Duration) (*Event, error) {
	updated, changed, err := applyPatch(current, patch)
	if err != nil {
		return nil, err
	}
	if patch.EventDate != nil {
		if err := checkEventDate(*patch.EventDate, minLead); err != nil {
			return nil, err
		}
	}
	if patch.CategoryID != nil {
		if err := s.checkCategory(ctx, *patch.CategoryID); err != nil {
			return nil, err
		}
	}

	if patch.Action != "" {
		if err := validateAction(patch.Action, actor); err != nil {
			return nil, err
		}
		if !CanTransition(current.State, patch.Action, actor) {
			return nil, fault.Conflictf("event %d in state %s does not allow %s", current.ID, current.State, patch.Action)
		}
		updated.State = nextState(patch.Action)
		if updated.State == StatePublished {
			now := time.Now()
			updated.PublishedAt = &now
		}
		changed = true
	}

	if !changed {
		return &current, nil
	}
	saved, err := s.repo.Update(ctx, updated)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return saved, nil
}

func applyPatch(current Event, patch UpdateParams) (Event, bool, error) {
	updated := current
	changed := false

	if patch.Annotation != nil && *patch.Annotation != current.Annotation {
		if strings.TrimSpace(*patch.Annotation) == "" {
			return updated, false, fault.Validationf("annotation must not be blank")
		}
		updated.Annotation = *patch.Annotation
		changed = true
	}
	if patch.Description != nil && *patch.Description != current.Description {
		updated.Description = *patch.Description
		changed = true
	}
	if patch.Title != nil && *patch.Title != current.Title {
		if strings.TrimSpace(*patch.Title) == "" {
			return updated, false, fault.Validationf("title must not be blank")
		}
		updated.Title = *patch.Title
		changed = true
	}
	if patch.CategoryID != nil && *patch.CategoryID != current.CategoryID {
		updated.CategoryID = *patch.CategoryID
		changed = true
	}
	if patch.EventDate != nil && !patch.EventDate.Equal(current.EventDate) {
		updated.EventDate = *patch.EventDate
		changed = true
	}
	if patch.Location != nil && *patch.Location != current.Location {
		if err := validateLocation(*patch.Location); err != nil {
			return updated, false, err
		}
		updated.Location = *patch.Location
		changed = true
	}
	if patch.Paid != nil && *patch.Paid != current.Paid {
		updated.Paid = *patch.Paid
		changed = true
	}
	if patch.ParticipantLimit != nil && *patch.ParticipantLimit != current.ParticipantLimit {
		if *patch.ParticipantLimit < 0 {
			return updated, false, fault.Validationf("participant limit must not be negative")
		}
		updated.ParticipantLimit = *patch.ParticipantLimit
		changed = true
	}
	if patch.RequestModeration != nil && *patch.RequestModeration != current.RequestModeration {
		updated.RequestModeration = *patch.RequestModeration
		changed = true
	}

	return updated, changed, nil
}

func validateDraft(draft NewEvent) error {
	if strings.TrimSpace(draft.Title) == "" {
		return fault.Validationf("title must not be blank")
	}
	if strings.TrimSpace(draft.Annotation) == "" {
		return fault.Validationf("annotation must not be blank")
	}
	if draft.ParticipantLimit < 0 {
		return fault.Validationf("participant limit must not be negative")
	}
	return validateLocation(draft.Location)
}

func validateLocation(loc Location) error {
	if loc.Lat < -90 || loc.Lat > 90 {
		return fault.Validationf("latitude %v out of range [-90, 90]", loc.Lat)
	}
	if loc.Lon < -180 || loc.Lon > 180 {
		return fault.Validationf("longitude %v out of range [-180, 180]", loc.Lon)
	}
	return nil
}

func validateAction(action StateAction, actor Actor) error {
	var allowed bool
	switch actor {
	case ActorOwner:
		allowed = action == ActionSendToReview || action == ActionCancelReview
	case ActorAdmin:
		allowed = action == ActionPublish || action == ActionReject
	}
	if !allowed {
		return fault.Validationf("unknown state action %q for %s", action, actor)
	}
	return nil
}

func checkEventDate(date time.Time, minLead time.Duration) error {
	if date.Before(time.Now().Add(minLead)) {
		return fault.Validationf("event date must be at least %s after the current moment", minLead)
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

func (s *Service) checkCategory(ctx context.Context, id int64) error {
	ok, err := s.categories.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if !ok {
		return fault.NotFoundf("category %d is not found", id)
	}
	return nil
}
