package events

import (
	"context"
	"time"

	"github.com/gatherly/server/internal/api/pagination"
)

// PublicFilters constrain the public event listing. RangeStart defaults to
// the time of the query when unset, so past events never appear.
type PublicFilters struct {
	Text          string
	Categories    []int64
	Paid          *bool
	RangeStart    *time.Time
	RangeEnd      *time.Time
	OnlyAvailable bool
}

// AdminFilters constrain the administrative listing. No state restriction
// is applied unless States is set.
type AdminFilters struct {
	Users      []int64
	States     []State
	Categories []int64
	RangeStart *time.Time
	RangeEnd   *time.Time
}

type Repository interface {
	Create(ctx context.Context, event Event) (*Event, error)
	GetByID(ctx context.Context, id int64) (*Event, error)
	GetByInitiator(ctx context.Context, initiatorID, eventID int64) (*Event, error)
	Update(ctx context.Context, event Event) (*Event, error)
	ListByInitiator(ctx context.Context, initiatorID int64, page pagination.Page) ([]Event, error)
	ListPublished(ctx context.Context, filters PublicFilters, now time.Time, page pagination.Page) ([]Event, error)
	ListAdmin(ctx context.Context, filters AdminFilters, page pagination.Page) ([]Event, error)
	AnyByCategory(ctx context.Context, categoryID int64) (bool, error)
}

// CategoryLookup resolves category references on create/update.
type CategoryLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// UserLookup resolves the acting user.
type UserLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// ConfirmedCounter exposes the admission engine's confirmed-request counts
// to the read side.
type ConfirmedCounter interface {
	CountConfirmedByEvents(ctx context.Context, eventIDs []int64) (map[int64]int, error)
}
