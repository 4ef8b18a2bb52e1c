// Package events holds the event lifecycle: the state machine, the owner
// and admin edit paths, and the published-catalog query service.
package events

import "time"

// State is the moderation state of an event. New events start pending.
type State string

const (
	StatePending   State = "PENDING"
	StatePublished State = "PUBLISHED"
	StateCanceled  State = "CANCELED"
)

func (s State) Valid() bool {
	switch s {
	case StatePending, StatePublished, StateCanceled:
		return true
	}
	return false
}

// Actor scopes a state action to the role attempting it.
type Actor string

const (
	ActorOwner Actor = "owner"
	ActorAdmin Actor = "admin"
)

// StateAction is a requested transition carried in an update patch.
type StateAction string

const (
	ActionSendToReview StateAction = "SEND_TO_REVIEW"
	ActionCancelReview StateAction = "CANCEL_REVIEW"
	ActionPublish      StateAction = "PUBLISH_EVENT"
	ActionReject       StateAction = "REJECT_EVENT"
)

// Creation requires a longer lead on the event date than admin review.
// The asymmetry is intentional and pinned by tests.
const (
	MinCreateLead = 2 * time.Hour
	MinAdminLead  = 1 * time.Hour
)

type Location struct {
	Lat float64
	Lon float64
}

type Event struct {
	ID                int64
	Annotation        string
	Description       string
	Title             string
	CategoryID        int64
	InitiatorID       int64
	EventDate         time.Time
	CreatedAt         time.Time
	PublishedAt       *time.Time
	Location          Location
	Paid              bool
	ParticipantLimit  int
	RequestModeration bool
	State             State
}

// CanTransition reports whether the actor may apply the action to an event
// in the current state. Owners may resubmit or withdraw anything that is
// not published; admins publish only pending events and reject anything
// not yet published.
func CanTransition(current State, action StateAction, actor Actor) bool {
	switch actor {
	case ActorOwner:
		if current == StatePublished {
			return false
		}
		return action == ActionSendToReview || action == ActionCancelReview
	case ActorAdmin:
		switch action {
		case ActionPublish:
			return current == StatePending
		case ActionReject:
			return current != StatePublished
		}
	}
	return false
}

func nextState(action StateAction) State {
	switch action {
	case ActionSendToReview:
		return StatePending
	case ActionCancelReview:
		return StateCanceled
	case ActionPublish:
		return StatePublished
	case ActionReject:
		return StateCanceled
	}
	return StatePending
}
