package domain

import (
	"context"
	"time"
)

// FriendRequest is one directed half of a friendship. A logical friendship
// is two rows, A→B and B→A, kept in lockstep: whenever either reaches
// approved or removed the counterpart is set to the same status in the same
// transaction.
// swagger:model FriendRequest
type FriendRequest struct {
	ID          string     `json:"id"`
	RequesterID string     `json:"requester_id"`
	ReceiverID  string     `json:"receiver_id"`
	Status      JoinStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewFriendRequest returns a pending directed request. ID is set by the
// repository on create.
func NewFriendRequest(requesterID, receiverID string, createdAt time.Time) *FriendRequest {
	return &FriendRequest{
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		Status:      StatusPending,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

// FriendRequestRepository defines storage operations for friend requests.
type FriendRequestRepository interface {
	Create(ctx context.Context, req *FriendRequest) error
	GetByUsers(ctx context.Context, requesterID, receiverID string) (*FriendRequest, error)
	UpdateStatus(ctx context.Context, id string, status JoinStatus) error
	// ListByReceiverAndStatus returns the directed rows addressed to the
	// receiver with the given status (e.g. the incoming pending queue).
	ListByReceiverAndStatus(ctx context.Context, receiverID string, status JoinStatus) ([]*FriendRequest, error)

	// SyncPair transitions the (requester→receiver) row from→to and, in
	// the same transaction, sets the counterpart (receiver→requester) row
	// to the same status, creating it if the counterpart never toggled.
	// Both rows are locked in a deterministic order before either is
	// written. A primary row not currently in the expected status is a
	// no-op (bool false); a missing primary row is ErrNotFound.
	SyncPair(ctx context.Context, requesterID, receiverID string, from, to JoinStatus) (*FriendRequest, bool, error)
}

// FriendshipService coordinates the symmetric friend-request state machine.
// The receiver of a directed request approves or rejects it; either side of
// an established friendship can remove it.
type FriendshipService interface {
	// ToggleRequest toggles the caller's own directed request towards the
	// other user, creating it as pending on first call.
	ToggleRequest(ctx context.Context, callerID, otherID string) (*FriendRequest, error)
	// Approve commits the pending request from requester to the caller,
	// mirroring approved onto both directed rows.
	Approve(ctx context.Context, callerID, requesterID string) (*FriendRequest, error)
	// Reject commits the pending request from requester to the caller,
	// mirroring rejected onto both directed rows.
	Reject(ctx context.Context, callerID, requesterID string) (*FriendRequest, error)
	// Remove ends an approved friendship from either side, mirroring
	// removed onto both directed rows.
	Remove(ctx context.Context, callerID, otherID string) (*FriendRequest, error)
	// ListIncomingPending returns the caller's incoming pending requests.
	ListIncomingPending(ctx context.Context, callerID string) ([]*FriendRequest, error)
}
