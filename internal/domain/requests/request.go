// Package requests owns participation requests: users asking to join a
// published event, the requester's cancel path, and the owner's
// capacity-bounded bulk confirmation.
package requests

import "time"

// Status of a participation request. StatusCanceled and StatusRejected are
// terminal; StatusConfirmed is terminal for capacity accounting since no
// reversal path exists.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusRejected  Status = "REJECTED"
	StatusCanceled  Status = "CANCELED"
)

// Terminal reports whether a request in this status may never transition
// again.
func (s Status) Terminal() bool {
	return s == StatusCanceled || s == StatusRejected
}

// Decision is the owner's bulk-moderation verdict.
type Decision string

const (
	DecisionConfirm Decision = "CONFIRMED"
	DecisionReject  Decision = "REJECTED"
)

// Request is one user's participation request for one event. At most one
// request exists per (event, requester) pair.
type Request struct {
	ID          int64
	EventID     int64
	RequesterID int64
	CreatedAt   time.Time
	Status      Status
}
