package requests

import "context"

// Repository is the durable request store.
//
// WithEventLock runs fn inside one serializable unit of work holding an
// exclusive lock on the event: either every status change made by fn
// commits, or none does, and two concurrent admissions against the same
// event never interleave. The postgres implementation locks the event row
// FOR UPDATE; the in-memory test double holds a per-event mutex.
type Repository interface {
	WithEventLock(ctx context.Context, eventID int64, fn func(ctx context.Context, tx Tx) error) error

	GetByIDAndRequester(ctx context.Context, requestID, requesterID int64) (*Request, error)
	UpdateStatus(ctx context.Context, requestID int64, status Status) (*Request, error)
	ListByRequester(ctx context.Context, requesterID int64) ([]Request, error)
	ListByEvent(ctx context.Context, eventID int64) ([]Request, error)
	CountConfirmedByEvents(ctx context.Context, eventIDs []int64) (map[int64]int, error)
}

// Tx is the slice of the store visible inside an event-locked unit of work.
// Counts read through it see a consistent snapshot of the event's requests.
type Tx interface {
	CountConfirmed(ctx context.Context, eventID int64) (int, error)
	Exists(ctx context.Context, eventID, requesterID int64) (bool, error)
	Create(ctx context.Context, request Request) (*Request, error)

	// FindByEventAndIDs loads the named requests scoped to the event,
	// in the order the ids are given.
	FindByEventAndIDs(ctx context.Context, eventID int64, ids []int64) ([]Request, error)
	UpdateStatuses(ctx context.Context, ids []int64, status Status) error
}
