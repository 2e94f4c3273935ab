package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cheerup/internal/domain"
)

type fakeUserRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.User
}

func newFakeUserRepo(ids ...string) *fakeUserRepo {
	f := &fakeUserRepo{byID: make(map[string]*domain.User)}
	for _, id := range ids {
		f.byID[id] = &domain.User{ID: id, Email: id + "@example.com", Name: "name-" + id}
	}
	return f
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == user.Email {
			return domain.ErrDuplicateEmail
		}
	}
	user.ID = fmt.Sprintf("user-%d", len(f.byID)+1)
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

// fakeFriendRepo keys directed rows by requester+"/"+receiver. SyncPair runs
// the mirror under one mutex, like the Postgres version's transaction.
type fakeFriendRepo struct {
	mu     sync.Mutex
	rows   map[string]*domain.FriendRequest
	nextID int
}

func newFakeFriendRepo() *fakeFriendRepo {
	return &fakeFriendRepo{rows: make(map[string]*domain.FriendRequest), nextID: 1}
}

func pairKey(requesterID, receiverID string) string { return requesterID + "/" + receiverID }

func (f *fakeFriendRepo) Create(ctx context.Context, req *domain.FriendRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createLocked(req)
	return nil
}

func (f *fakeFriendRepo) createLocked(req *domain.FriendRequest) {
	req.ID = fmt.Sprintf("fr-%d", f.nextID)
	f.nextID++
	copied := *req
	f.rows[pairKey(req.RequesterID, req.ReceiverID)] = &copied
}

func (f *fakeFriendRepo) GetByUsers(ctx context.Context, requesterID, receiverID string) (*domain.FriendRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.rows[pairKey(requesterID, receiverID)]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeFriendRepo) UpdateStatus(ctx context.Context, id string, status domain.JoinStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id {
			r.Status = status
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeFriendRepo) ListByReceiverAndStatus(ctx context.Context, receiverID string, status domain.JoinStatus) ([]*domain.FriendRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.FriendRequest{}
	for _, r := range f.rows {
		if r.ReceiverID == receiverID && r.Status == status {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeFriendRepo) SyncPair(ctx context.Context, requesterID, receiverID string, from, to domain.JoinStatus) (*domain.FriendRequest, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	primary, ok := f.rows[pairKey(requesterID, receiverID)]
	if !ok {
		return nil, false, domain.ErrNotFound
	}
	if primary.Status != from {
		copied := *primary
		return &copied, false, nil
	}
	primary.Status = to
	if counterpart, ok := f.rows[pairKey(receiverID, requesterID)]; ok {
		counterpart.Status = to
	} else {
		mirror := domain.NewFriendRequest(receiverID, requesterID, time.Now())
		mirror.Status = to
		f.createLocked(mirror)
	}
	copied := *primary
	return &copied, true, nil
}

func (f *fakeFriendRepo) status(requesterID, receiverID string) (domain.JoinStatus, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.rows[pairKey(requesterID, receiverID)]; ok {
		return r.Status, true
	}
	return "", false
}

func setupFriendship(t *testing.T, userIDs ...string) (domain.FriendshipService, *fakeFriendRepo, *recordingNotifier) {
	t.Helper()
	friends := newFakeFriendRepo()
	notifier := newRecordingNotifier()
	svc := NewFriendshipService(friends, newFakeUserRepo(userIDs...), notifier)
	return svc, friends, notifier
}

func TestToggleRequest_CreatesPending(t *testing.T) {
	svc, friends, _ := setupFriendship(t, "alice", "bob")
	ctx := context.Background()

	req, err := svc.ToggleRequest(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, req.Status)

	// Only the caller's directed row exists until the receiver acts.
	_, exists := friends.status("bob", "alice")
	assert.False(t, exists)
}

func TestToggleRequest_Self(t *testing.T) {
	svc, _, _ := setupFriendship(t, "alice")

	_, err := svc.ToggleRequest(context.Background(), "alice", "alice")
	assert.ErrorIs(t, err, domain.ErrSelfFriendForbidden)
}

func TestToggleRequest_UnknownUser(t *testing.T) {
	svc, _, _ := setupFriendship(t, "alice")

	_, err := svc.ToggleRequest(context.Background(), "alice", "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestToggleRequest_WithdrawAndResend(t *testing.T) {
	svc, _, _ := setupFriendship(t, "alice", "bob")
	ctx := context.Background()

	_, err := svc.ToggleRequest(ctx, "alice", "bob")
	require.NoError(t, err)

	req, err := svc.ToggleRequest(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWithdrawn, req.Status)

	req, err = svc.ToggleRequest(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, req.Status)
}

func TestApprove_MirrorsBothRows(t *testing.T) {
	svc, friends, notifier := setupFriendship(t, "alice", "bob")
	ctx := context.Background()

	_, err := svc.ToggleRequest(ctx, "alice", "bob")
	require.NoError(t, err)

	req, err := svc.Approve(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, req.Status)

	forward, _ := friends.status("alice", "bob")
	backward, ok := friends.status("bob", "alice")
	assert.Equal(t, domain.StatusApproved, forward)
	require.True(t, ok, "counterpart row should be created by the mirror")
	assert.Equal(t, domain.StatusApproved, backward)
	assert.Equal(t, 1, notifier.count("alice"))
}

func TestApprove_ExistingCounterpart(t *testing.T) {
	svc, friends, _ := setupFriendship(t, "alice", "bob")
	ctx := context.Background()

	// Both sides sent a request; bob later withdrew his.
	_, err := svc.ToggleRequest(ctx, "alice", "bob")
	require.NoError(t, err)
	_, err = svc.ToggleRequest(ctx, "bob", "alice")
	require.NoError(t, err)
	_, err = svc.ToggleRequest(ctx, "bob", "alice")
	require.NoError(t, err)

	_, err = svc.Approve(ctx, "bob", "alice")
	require.NoError(t, err)

	backward, _ := friends.status("bob", "alice")
	assert.Equal(t, domain.StatusApproved, backward)
}

func TestReject_MirrorsBothRows(t *testing.T) {
	svc, friends, _ := setupFriendship(t, "alice", "bob")
	ctx := context.Background()

	_, err := svc.ToggleRequest(ctx, "alice", "bob")
	require.NoError(t, err)

	req, err := svc.Reject(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, req.Status)

	backward, ok := friends.status("bob", "alice")
	require.True(t, ok)
	assert.Equal(t, domain.StatusRejected, backward)
}

func TestApprove_NoPendingRequest(t *testing.T) {
	svc, _, notifier := setupFriendship(t, "alice", "bob")

	_, err := svc.Approve(context.Background(), "bob", "alice")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, notifier.count("alice"))
}

func TestApprove_WithdrawnRequestIsNoop(t *testing.T) {
	svc, friends, notifier := setupFriendship(t, "alice", "bob")
	ctx := context.Background()

	_, err := svc.ToggleRequest(ctx, "alice", "bob")
	require.NoError(t, err)
	_, err = svc.ToggleRequest(ctx, "alice", "bob")
	require.NoError(t, err)

	req, err := svc.Approve(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWithdrawn, req.Status)

	_, ok := friends.status("bob", "alice")
	assert.False(t, ok, "no-op approval should not create a counterpart")
	assert.Zero(t, notifier.count("alice"))
}

func TestRemove_WorksFromEitherSide(t *testing.T) {
	for _, tc := range []struct {
		name, caller, other string
	}{
		{"receiver removes", "bob", "alice"},
		{"requester removes", "alice", "bob"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			svc, friends, _ := setupFriendship(t, "alice", "bob")
			ctx := context.Background()

			_, err := svc.ToggleRequest(ctx, "alice", "bob")
			require.NoError(t, err)
			_, err = svc.Approve(ctx, "bob", "alice")
			require.NoError(t, err)

			req, err := svc.Remove(ctx, tc.caller, tc.other)
			require.NoError(t, err)
			assert.Equal(t, domain.StatusRemoved, req.Status)

			forward, _ := friends.status("alice", "bob")
			backward, _ := friends.status("bob", "alice")
			assert.Equal(t, domain.StatusRemoved, forward)
			assert.Equal(t, domain.StatusRemoved, backward)
		})
	}
}

func TestRemovedFriendCanRequestAgain(t *testing.T) {
	svc, _, _ := setupFriendship(t, "alice", "bob")
	ctx := context.Background()

	_, err := svc.ToggleRequest(ctx, "alice", "bob")
	require.NoError(t, err)
	_, err = svc.Approve(ctx, "bob", "alice")
	require.NoError(t, err)
	_, err = svc.Remove(ctx, "alice", "bob")
	require.NoError(t, err)

	req, err := svc.ToggleRequest(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, req.Status)
}

func TestListIncomingPending(t *testing.T) {
	svc, _, _ := setupFriendship(t, "alice", "bob", "carol")
	ctx := context.Background()

	_, err := svc.ToggleRequest(ctx, "alice", "bob")
	require.NoError(t, err)
	_, err = svc.ToggleRequest(ctx, "carol", "bob")
	require.NoError(t, err)
	_, err = svc.ToggleRequest(ctx, "bob", "alice")
	require.NoError(t, err)

	incoming, err := svc.ListIncomingPending(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, incoming, 2)
	for _, r := range incoming {
		assert.Equal(t, "bob", r.ReceiverID)
		assert.Equal(t, domain.StatusPending, r.Status)
	}
}
