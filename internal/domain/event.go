package domain

import (
	"context"
	"sort"
	"strings"
	"time"
)

// Event represents a capacity-limited event created by a user.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatorID   string    `json:"creator_id"`
	Capacity    int       `json:"capacity"`
	IsActive    bool      `json:"is_active"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewEvent returns a new active Event. ID is set by the repository on create.
func NewEvent(name, description, creatorID string, capacity int, startTime, endTime, createdAt time.Time) *Event {
	return &Event{
		Name:        name,
		Description: description,
		CreatorID:   creatorID,
		Capacity:    capacity,
		IsActive:    true,
		StartTime:   startTime,
		EndTime:     endTime,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

// ValidationErrors maps a field name to the rule it violated. A fresh value
// is built per validation call and returned to the caller; it is never
// shared between requests.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	msgs := make([]string, 0, len(v))
	for _, f := range fields {
		msgs = append(msgs, f+": "+v[f])
	}
	return strings.Join(msgs, "; ")
}

// ValidateEvent checks the user-supplied event fields against the creation
// rules and returns the accumulated errors, nil when everything passes.
func ValidateEvent(name string, capacity int, start, end, now time.Time) ValidationErrors {
	errs := ValidationErrors{}
	if strings.TrimSpace(name) == "" {
		errs["name"] = "event name cannot be empty"
	}
	if capacity < 0 {
		errs["capacity"] = "capacity must be a non-negative number"
	}
	if start.IsZero() {
		errs["start_time"] = "start time is required"
	} else if start.Before(now) {
		errs["start_time"] = "start time cannot be in the past"
	}
	if end.IsZero() {
		errs["end_time"] = "end time is required"
	} else if !start.IsZero() && end.Before(start) {
		errs["end_time"] = "end time cannot be earlier than start time"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// EventUpdate carries the mutable event fields for a partial update.
// Nil fields are left unchanged.
type EventUpdate struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Capacity    *int       `json:"capacity"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
}

// EventRepository defines storage operations for events.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// ListUpcoming returns active events whose end time is after now,
	// newest start time first.
	ListUpcoming(ctx context.Context, now time.Time) ([]*Event, error)
	ListByCreatorID(ctx context.Context, creatorID string) ([]*Event, error)
	// Update persists the mutable fields of event. When the capacity
	// shrinks, the check against the approved participant count runs in
	// the same transaction as the write; ErrCapacityBelowApproved is
	// returned and nothing is written if the new capacity is below it.
	Update(ctx context.Context, event *Event) error
	SetActive(ctx context.Context, id string, active bool) error
	// ApprovedCount is the display-path count of approved joins. The
	// commit-path capacity check never uses it; that count is recomputed
	// under the event row lock inside the approval transaction.
	ApprovedCount(ctx context.Context, eventID string) (int, error)
}

// EventDetail bundles an event with its participation state for the detail page.
type EventDetail struct {
	Event         *Event       `json:"event"`
	ApprovedCount int          `json:"approved_count"`
	PendingCount  int          `json:"pending_count"`
	Approved      []*EventJoin `json:"approved"`
	Pending       []*EventJoin `json:"pending"`
	// CallerStatus is the viewing user's own join status, empty when the
	// caller has no request against this event.
	CallerStatus JoinStatus `json:"caller_status,omitempty"`
}

// EventService defines event registry operations.
type EventService interface {
	Create(ctx context.Context, creatorID, name, description string, capacity int, start, end time.Time) (*Event, error)
	GetDetail(ctx context.Context, eventID, callerID string) (*EventDetail, error)
	ListUpcoming(ctx context.Context) ([]*Event, error)
	Update(ctx context.Context, eventID, callerID string, upd EventUpdate) (*Event, error)
	Deactivate(ctx context.Context, eventID, callerID string) error
}
