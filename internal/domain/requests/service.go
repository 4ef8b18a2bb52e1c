package requests

import (
	"context"
	"fmt"
	"time"

	"github.com/gatherly/server/internal/domain/events"
	"github.com/gatherly/server/internal/domain/fault"
)

// EventSource is the slice of the event lifecycle the admission engine
// needs: capacity, moderation flag, state, and ownership.
type EventSource interface {
	GetByID(ctx context.Context, id int64) (*events.Event, error)
	GetByInitiator(ctx context.Context, initiatorID, eventID int64) (*events.Event, error)
}

// UserLookup resolves the acting user.
type UserLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Result is the outcome of a bulk decision: the requests that ended
// confirmed and the ones that ended rejected by virtue of the call,
// cascaded rejections included.
type Result struct {
	Confirmed []Request
	Rejected  []Request
}

// Service is the admission engine. Every operation runs as one unit of
// work; capacity checks are evaluated against a consistent snapshot of the
// confirmed count under the event lock, so concurrent submissions can never
// jointly overshoot the participant limit.
type Service struct {
	repo   Repository
	events EventSource
	users  UserLookup
}

func NewService(repo Repository, eventSource EventSource, users UserLookup) *Service {
	return &Service{repo: repo, events: eventSource, users: users}
}

// Submit files a participation request. The request is confirmed on the
// spot when the event does not moderate requests or has no participant
// limit; otherwise it starts pending.
func (s *Service) Submit(ctx context.Context, requesterID, eventID int64) (*Request, error) {
	if err := s.checkUser(ctx, requesterID); err != nil {
		return nil, err
	}
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.InitiatorID == requesterID {
		return nil, fault.Conflictf("user %d is the initiator of event %d", requesterID, eventID)
	}
	if event.State != events.StatePublished {
		return nil, fault.Conflictf("event %d is not published", eventID)
	}

	var created *Request
	err = s.repo.WithEventLock(ctx, eventID, func(ctx context.Context, tx Tx) error {
		exists, err := tx.Exists(ctx, eventID, requesterID)
		if err != nil {
			return fmt.Errorf("check duplicate request: %w", err)
		}
		if exists {
			return fault.Conflictf("user %d already has a request for event %d", requesterID, eventID)
		}

		if event.ParticipantLimit > 0 {
			confirmed, err := tx.CountConfirmed(ctx, eventID)
			if err != nil {
				return fmt.Errorf("count confirmed requests: %w", err)
			}
			if confirmed >= event.ParticipantLimit {
				return fault.Conflictf("participant limit of event %d is reached", eventID)
			}
		}

		status := StatusPending
		if !event.RequestModeration || event.ParticipantLimit == 0 {
			status = StatusConfirmed
		}
		created, err = tx.Create(ctx, Request{
			EventID:     eventID,
			RequesterID: requesterID,
			CreatedAt:   time.Now(),
			Status:      status,
		})
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Cancel sets the requester's own request to canceled. Requests already in
// a terminal status stay there.
func (s *Service) Cancel(ctx context.Context, requesterID, requestID int64) (*Request, error) {
	if err := s.checkUser(ctx, requesterID); err != nil {
		return nil, err
	}
	request, err := s.repo.GetByIDAndRequester(ctx, requestID, requesterID)
	if err != nil {
		return nil, err
	}
	if request.Status.Terminal() {
		return nil, fault.Conflictf("request %d is already %s", requestID, request.Status)
	}
	updated, err := s.repo.UpdateStatus(ctx, requestID, StatusCanceled)
	if err != nil {
		return nil, fmt.Errorf("cancel request: %w", err)
	}
	return updated, nil
}

// ListOwn returns all requests filed by the user.
func (s *Service) ListOwn(ctx context.Context, requesterID int64) ([]Request, error) {
	if err := s.checkUser(ctx, requesterID); err != nil {
		return nil, err
	}
	return s.repo.ListByRequester(ctx, requesterID)
}

// ListForEvent returns all requests targeting the owner's event.
func (s *Service) ListForEvent(ctx context.Context, ownerID, eventID int64) ([]Request, error) {
	if err := s.checkUser(ctx, ownerID); err != nil {
		return nil, err
	}
	if _, err := s.events.GetByInitiator(ctx, ownerID, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListByEvent(ctx, eventID)
}

// Decide is the capacity-bounded bulk moderation. For a confirm decision
// the named requests are accepted in the given order until the free slots
// run out; everything after that point cascades to rejected in the same
// unit of work, so an over-subscribed batch never leaves dangling pending
// requests. For a reject decision already-terminal requests are skipped.
func (s *Service) Decide(ctx context.Context, ownerID, eventID int64, requestIDs []int64, decision Decision) (*Result, error) {
	if err := s.checkUser(ctx, ownerID); err != nil {
		return nil, err
	}
	event, err := s.events.GetByInitiator(ctx, ownerID, eventID)
	if err != nil {
		return nil, err
	}
	if !event.RequestModeration || event.ParticipantLimit == 0 {
		return nil, fault.Conflictf("event %d does not require confirmation of requests", eventID)
	}
	if decision != DecisionConfirm && decision != DecisionReject {
		return nil, fault.Validationf("unknown decision %q", decision)
	}

	result := &Result{}
	err = s.repo.WithEventLock(ctx, eventID, func(ctx context.Context, tx Tx) error {
		confirmed, err := tx.CountConfirmed(ctx, eventID)
		if err != nil {
			return fmt.Errorf("count confirmed requests: %w", err)
		}
		freeSlots := event.ParticipantLimit - confirmed
		if decision == DecisionConfirm && freeSlots <= 0 {
			return fault.Conflictf("participant limit of event %d is reached", eventID)
		}

		batch, err := tx.FindByEventAndIDs(ctx, eventID, requestIDs)
		if err != nil {
			return fmt.Errorf("load requests: %w", err)
		}
		if len(batch) != len(requestIDs) {
			return fault.NotFoundf("some of requests %v do not belong to event %d", requestIDs, eventID)
		}

		switch decision {
		case DecisionConfirm:
			*result, err = decideConfirm(ctx, tx, batch, freeSlots)
		case DecisionReject:
			*result, err = decideReject(ctx, tx, batch)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func decideConfirm(ctx context.Context, tx Tx, batch []Request, freeSlots int) (Result, error) {
	var result Result
	for _, request := range batch {
		if request.Status != StatusPending {
			return Result{}, fault.Conflictf("request %d is not pending", request.ID)
		}
		if freeSlots > 0 {
			request.Status = StatusConfirmed
			result.Confirmed = append(result.Confirmed, request)
			freeSlots--
		} else {
			request.Status = StatusRejected
			result.Rejected = append(result.Rejected, request)
		}
	}
	if err := tx.UpdateStatuses(ctx, ids(result.Confirmed), StatusConfirmed); err != nil {
		return Result{}, fmt.Errorf("confirm requests: %w", err)
	}
	if err := tx.UpdateStatuses(ctx, ids(result.Rejected), StatusRejected); err != nil {
		return Result{}, fmt.Errorf("reject overflow requests: %w", err)
	}
	return result, nil
}

func decideReject(ctx context.Context, tx Tx, batch []Request) (Result, error) {
	var result Result
	for _, request := range batch {
		if request.Status.Terminal() {
			continue
		}
		request.Status = StatusRejected
		result.Rejected = append(result.Rejected, request)
	}
	if err := tx.UpdateStatuses(ctx, ids(result.Rejected), StatusRejected); err != nil {
		return Result{}, fmt.Errorf("reject requests: %w", err)
	}
	return result, nil
}

func ids(batch []Request) []int64 {
	if len(batch) == 0 {
		return nil
	}
	out := make([]int64, len(batch))
	for i, request := range batch {
		out[i] = request.ID
	}
	return out
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
