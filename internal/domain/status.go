package domain

// JoinStatus is the lifecycle state of a participation or friend request.
// Rows are never deleted, only transitioned, so the full history of a
// request is reconstructable from its current state.
type JoinStatus string

const (
	StatusPending   JoinStatus = "pending"
	StatusWithdrawn JoinStatus = "withdrawn"
	StatusApproved  JoinStatus = "approved"
	StatusRejected  JoinStatus = "rejected"
	StatusRemoved   JoinStatus = "removed"
)

// Valid reports whether s is one of the known statuses.
func (s JoinStatus) Valid() bool {
	switch s {
	case StatusPending, StatusWithdrawn, StatusApproved, StatusRejected, StatusRemoved:
		return true
	}
	return false
}

// Toggle returns the status a requester-initiated toggle moves s to, and
// whether a transition happens at all. Pending withdraws; withdrawn,
// rejected and removed re-enter the pending queue. Approved rows belong to
// the event creator and never toggle.
func (s JoinStatus) Toggle() (JoinStatus, bool) {
	switch s {
	case StatusPending:
		return StatusWithdrawn, true
	case StatusWithdrawn, StatusRejected, StatusRemoved:
		return StatusPending, true
	}
	return s, false
}
