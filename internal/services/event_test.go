package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cheerup/internal/domain"
)

func setupEvents(t *testing.T) (domain.EventService, *fakeEventRepo, *fakeJoinRepo) {
	t.Helper()
	events := newFakeEventRepo()
	joins := newFakeJoinRepo(events)
	return NewEventService(events, joins), events, joins
}

func TestCreateEvent(t *testing.T) {
	svc, _, _ := setupEvents(t)

	event, err := svc.Create(context.Background(), "creator-1", "Picnic", "In the park", 10,
		time.Now().Add(time.Hour), time.Now().Add(3*time.Hour))
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.True(t, event.IsActive)
	assert.Equal(t, 10, event.Capacity)
}

func TestCreateEvent_ValidationAccumulates(t *testing.T) {
	svc, _, _ := setupEvents(t)

	// Several invalid fields at once; every violation shows up in the error.
	_, err := svc.Create(context.Background(), "creator-1", "  ", "", -1,
		time.Now().Add(2*time.Hour), time.Now().Add(time.Hour))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "name")
	assert.Contains(t, err.Error(), "capacity")
	assert.Contains(t, err.Error(), "end_time")
}

func TestCreateEvent_StartInPast(t *testing.T) {
	svc, _, _ := setupEvents(t)

	_, err := svc.Create(context.Background(), "creator-1", "Picnic", "", 5,
		time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "start_time")
}

func TestCreateEvent_ZeroCapacityAllowed(t *testing.T) {
	svc, _, _ := setupEvents(t)

	event, err := svc.Create(context.Background(), "creator-1", "Waitlist only", "", 0,
		time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, event.Capacity)
}

func TestGetDetail(t *testing.T) {
	eventSvc, events, joins := setupEvents(t)
	partSvc := NewParticipationService(events, joins, newRecordingNotifier())
	ctx := context.Background()

	event, err := eventSvc.Create(ctx, "creator-1", "Picnic", "", 5,
		time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))
	require.NoError(t, err)

	_, err = partSvc.ToggleJoin(ctx, event.ID, "user-1")
	require.NoError(t, err)
	_, err = partSvc.ToggleJoin(ctx, event.ID, "user-2")
	require.NoError(t, err)
	_, err = partSvc.Approve(ctx, event.ID, "creator-1", "user-1")
	require.NoError(t, err)

	detail, err := eventSvc.GetDetail(ctx, event.ID, "user-2")
	require.NoError(t, err)
	assert.Equal(t, 1, detail.ApprovedCount)
	assert.Equal(t, 1, detail.PendingCount)
	assert.Equal(t, domain.StatusPending, detail.CallerStatus)

	// A visitor with no request sees no caller status.
	detail, err = eventSvc.GetDetail(ctx, event.ID, "stranger")
	require.NoError(t, err)
	assert.Empty(t, detail.CallerStatus)
}

func TestGetDetail_NotFound(t *testing.T) {
	svc, _, _ := setupEvents(t)

	_, err := svc.GetDetail(context.Background(), "missing", "user-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateEvent(t *testing.T) {
	svc, _, _ := setupEvents(t)
	ctx := context.Background()

	event, err := svc.Create(ctx, "creator-1", "Picnic", "", 5,
		time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))
	require.NoError(t, err)

	name := "Autumn picnic"
	capacity := 8
	updated, err := svc.Update(ctx, event.ID, "creator-1", domain.EventUpdate{Name: &name, Capacity: &capacity})
	require.NoError(t, err)
	assert.Equal(t, "Autumn picnic", updated.Name)
	assert.Equal(t, 8, updated.Capacity)
}

func TestUpdateEvent_Forbidden(t *testing.T) {
	svc, _, _ := setupEvents(t)
	ctx := context.Background()

	event, err := svc.Create(ctx, "creator-1", "Picnic", "", 5,
		time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))
	require.NoError(t, err)

	name := "Hijacked"
	_, err = svc.Update(ctx, event.ID, "someone-else", domain.EventUpdate{Name: &name})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateEvent_CapacityBelowApproved(t *testing.T) {
	eventSvc, events, joins := setupEvents(t)
	partSvc := NewParticipationService(events, joins, newRecordingNotifier())
	ctx := context.Background()

	event, err := eventSvc.Create(ctx, "creator-1", "Picnic", "", 5,
		time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))
	require.NoError(t, err)

	for _, u := range []string{"user-1", "user-2"} {
		_, err = partSvc.ToggleJoin(ctx, event.ID, u)
		require.NoError(t, err)
		_, err = partSvc.Approve(ctx, event.ID, "creator-1", u)
		require.NoError(t, err)
	}

	one := 1
	_, err = eventSvc.Update(ctx, event.ID, "creator-1", domain.EventUpdate{Capacity: &one})
	assert.ErrorIs(t, err, domain.ErrCapacityBelowApproved)

	// Shrinking down to exactly the approved count is allowed.
	two := 2
	updated, err := eventSvc.Update(ctx, event.ID, "creator-1", domain.EventUpdate{Capacity: &two})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Capacity)
}

func TestDeactivate(t *testing.T) {
	svc, events, _ := setupEvents(t)
	ctx := context.Background()

	event, err := svc.Create(ctx, "creator-1", "Picnic", "", 5,
		time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, event.ID, "creator-1"))
	stored, err := events.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	// Deactivating twice is idempotent.
	require.NoError(t, svc.Deactivate(ctx, event.ID, "creator-1"))

	assert.ErrorIs(t, svc.Deactivate(ctx, event.ID, "intruder"), domain.ErrForbidden)
	assert.ErrorIs(t, svc.Deactivate(ctx, "missing", "creator-1"), domain.ErrNotFound)
}

func TestListUpcoming_ExcludesEndedAndInactive(t *testing.T) {
	svc, events, _ := setupEvents(t)
	ctx := context.Background()

	upcoming, err := svc.Create(ctx, "creator-1", "Soon", "", 5,
		time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))
	require.NoError(t, err)

	ended := domain.NewEvent("Over", "", "creator-1", 5,
		time.Now().Add(-3*time.Hour), time.Now().Add(-2*time.Hour), time.Now().Add(-4*time.Hour))
	require.NoError(t, events.Create(ctx, ended))

	cancelled, err := svc.Create(ctx, "creator-1", "Cancelled", "", 5,
		time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(ctx, cancelled.ID, "creator-1"))

	list, err := svc.ListUpcoming(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, upcoming.ID, list[0].ID)
}
