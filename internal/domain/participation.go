package domain

import (
	"context"
	"time"
)

// EventJoin is one user's participation request against one event. The
// (event, user) pair is unique; the row is created on the first join toggle
// and transitioned ever after, never deleted.
// swagger:model EventJoin
type EventJoin struct {
	ID        string     `json:"id"`
	EventID   string     `json:"event_id"`
	UserID    string     `json:"user_id"`
	Status    JoinStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewEventJoin returns a pending join request. ID is set by the repository on create.
func NewEventJoin(eventID, userID string, createdAt time.Time) *EventJoin {
	return &EventJoin{
		EventID:   eventID,
		UserID:    userID,
		Status:    StatusPending,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

// ApprovalOutcome reports what an approval attempt did.
type ApprovalOutcome string

const (
	// OutcomeApproved means the pending row was committed as approved.
	OutcomeApproved ApprovalOutcome = "approved"
	// OutcomeCapacityReached means the event is full. The row stays
	// pending and the approval can be retried after a slot frees up.
	OutcomeCapacityReached ApprovalOutcome = "capacity_reached"
	// OutcomeUnchanged means the row was not in a state the transition
	// applies to; nothing was written.
	OutcomeUnchanged ApprovalOutcome = "unchanged"
)

// ApprovalResult is the committed state after an approval attempt.
type ApprovalResult struct {
	Outcome       ApprovalOutcome `json:"outcome"`
	Join          *EventJoin      `json:"join"`
	ApprovedCount int             `json:"approved_count"`
}

// EventJoinRepository defines storage operations for participation requests.
// TryApprove and Transition are single atomic operations; the capacity
// check-then-set never leaves the repository as separate steps.
type EventJoinRepository interface {
	Create(ctx context.Context, join *EventJoin) error
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*EventJoin, error)
	UpdateStatus(ctx context.Context, id string, status JoinStatus) error
	ListByEventAndStatus(ctx context.Context, eventID string, status JoinStatus) ([]*EventJoin, error)
	ListByUserID(ctx context.Context, userID string) ([]*EventJoin, error)

	// TryApprove locks the event row, recomputes the approved count fresh
	// inside the transaction, and commits pending→approved only when one
	// more approval still fits the capacity. Returns ErrNotFound when the
	// event or the join row does not exist and ErrEventUnavailable when
	// the event is deactivated.
	TryApprove(ctx context.Context, eventID, userID string) (*ApprovalResult, error)

	// Transition sets the row to the given status only when it currently
	// has the expected one, inside a transaction holding the row lock.
	// The bool reports whether a transition was committed; a row in any
	// other state is a no-op, not an error.
	Transition(ctx context.Context, eventID, userID string, from, to JoinStatus) (*EventJoin, bool, error)
}

// ParticipationService coordinates join toggling and the creator-only
// approve/reject/remove transitions for events.
type ParticipationService interface {
	// ToggleJoin creates the caller's pending request on first call and
	// toggles it on subsequent ones (pending↔withdrawn; rejected and
	// removed re-enter pending). Approved rows are left untouched.
	ToggleJoin(ctx context.Context, eventID, userID string) (*EventJoin, error)
	// Approve commits pending→approved under the capacity invariant.
	// Only the event creator may call it.
	Approve(ctx context.Context, eventID, callerID, targetUserID string) (*ApprovalResult, error)
	// Reject commits pending→rejected. Only the event creator may call it.
	Reject(ctx context.Context, eventID, callerID, targetUserID string) (*EventJoin, error)
	// Remove commits approved→removed, freeing one capacity slot. Only
	// the event creator may call it.
	Remove(ctx context.Context, eventID, callerID, targetUserID string) (*EventJoin, error)
}
