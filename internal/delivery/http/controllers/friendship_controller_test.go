package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cheerup/internal/delivery/http/helpers"
	"cheerup/internal/delivery/http/middleware"
	"cheerup/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFriendshipService implements domain.FriendshipService for handler tests.
type fakeFriendshipService struct {
	toggleErr    error
	toggleResult *domain.FriendRequest
	approveErr   error
	rejectErr    error
	removeErr    error
	pairResult   *domain.FriendRequest
	listErr      error
	listResult   []*domain.FriendRequest

	lastCallerID string
	lastOtherID  string
}

func (f *fakeFriendshipService) ToggleRequest(ctx context.Context, callerID, otherID string) (*domain.FriendRequest, error) {
	f.lastCallerID = callerID
	f.lastOtherID = otherID
	if f.toggleErr != nil {
		return nil, f.toggleErr
	}
	return f.toggleResult, nil
}

func (f *fakeFriendshipService) Approve(ctx context.Context, callerID, requesterID string) (*domain.FriendRequest, error) {
	f.lastCallerID = callerID
	f.lastOtherID = requesterID
	if f.approveErr != nil {
		return nil, f.approveErr
	}
	return f.pairResult, nil
}

func (f *fakeFriendshipService) Reject(ctx context.Context, callerID, requesterID string) (*domain.FriendRequest, error) {
	f.lastCallerID = callerID
	f.lastOtherID = requesterID
	if f.rejectErr != nil {
		return nil, f.rejectErr
	}
	return f.pairResult, nil
}

func (f *fakeFriendshipService) Remove(ctx context.Context, callerID, otherID string) (*domain.FriendRequest, error) {
	f.lastCallerID = callerID
	f.lastOtherID = otherID
	if f.removeErr != nil {
		return nil, f.removeErr
	}
	return f.pairResult, nil
}

func (f *fakeFriendshipService) ListIncomingPending(ctx context.Context, callerID string) ([]*domain.FriendRequest, error) {
	f.lastCallerID = callerID
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.listResult != nil {
		return f.listResult, nil
	}
	return []*domain.FriendRequest{}, nil
}

func TestFriendshipController_ToggleRequest(t *testing.T) {
	tests := []struct {
		name        string
		userID      string
		noUser      bool
		fakeErr     error
		wantStatus  int
		wantErrCode string
	}{
		{
			name:       "success",
			userID:     "bob",
			wantStatus: http.StatusOK,
		},
		{
			name:        "missing userID",
			userID:      "",
			wantStatus:  http.StatusBadRequest,
			wantErrCode: helpers.ErrCodeBadRequest,
		},
		{
			name:        "unauthenticated",
			userID:      "bob",
			noUser:      true,
			wantStatus:  http.StatusUnauthorized,
			wantErrCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:        "self request",
			userID:      "alice",
			fakeErr:     domain.ErrSelfFriendForbidden,
			wantStatus:  http.StatusBadRequest,
			wantErrCode: helpers.ErrCodeBadRequest,
		},
		{
			name:        "unknown user",
			userID:      "ghost",
			fakeErr:     domain.ErrNotFound,
			wantStatus:  http.StatusNotFound,
			wantErrCode: helpers.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeFriendshipService{
				toggleErr:    tt.fakeErr,
				toggleResult: &domain.FriendRequest{ID: "fr-1", RequesterID: "alice", ReceiverID: tt.userID, Status: domain.StatusPending},
			}
			ctrl := NewFriendshipController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "http://test/profiles/"+tt.userID+"/toggle-join", nil)
			req.SetPathValue("userID", tt.userID)
			if !tt.noUser {
				req = req.WithContext(middleware.SetUserID(req.Context(), "alice"))
			}
			rr := httptest.NewRecorder()

			ctrl.ToggleRequest(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantErrCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantErrCode, envelope.Error.Code)
				return
			}
			require.Nil(t, envelope.Error)
			assert.Equal(t, "alice", fake.lastCallerID)
			assert.Equal(t, tt.userID, fake.lastOtherID)
		})
	}
}

func TestFriendshipController_PairTransitions(t *testing.T) {
	for _, tt := range []struct {
		name   string
		call   func(ctrl *FriendshipController, w http.ResponseWriter, r *http.Request)
		status domain.JoinStatus
	}{
		{
			name:   "approve",
			call:   func(ctrl *FriendshipController, w http.ResponseWriter, r *http.Request) { ctrl.Approve(w, r) },
			status: domain.StatusApproved,
		},
		{
			name:   "reject",
			call:   func(ctrl *FriendshipController, w http.ResponseWriter, r *http.Request) { ctrl.Reject(w, r) },
			status: domain.StatusRejected,
		},
		{
			name:   "remove",
			call:   func(ctrl *FriendshipController, w http.ResponseWriter, r *http.Request) { ctrl.Remove(w, r) },
			status: domain.StatusRemoved,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeFriendshipService{
				pairResult: &domain.FriendRequest{ID: "fr-1", RequesterID: "bob", ReceiverID: "alice", Status: tt.status},
			}
			ctrl := NewFriendshipController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "http://test/profiles/bob/"+tt.name, nil)
			req.SetPathValue("userID", "bob")
			req = req.WithContext(middleware.SetUserID(req.Context(), "alice"))
			rr := httptest.NewRecorder()

			tt.call(ctrl, rr, req)

			require.Equal(t, http.StatusOK, rr.Code)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			require.Nil(t, envelope.Error)
			data, ok := envelope.Data.(map[string]any)
			require.True(t, ok)
			assert.Equal(t, string(tt.status), data["status"])
			assert.Equal(t, "alice", fake.lastCallerID)
			assert.Equal(t, "bob", fake.lastOtherID)
		})
	}
}

func TestFriendshipController_ListIncoming(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakeFriendshipService{listResult: []*domain.FriendRequest{
			{ID: "fr-1", RequesterID: "bob", ReceiverID: "alice", Status: domain.StatusPending},
		}}
		ctrl := NewFriendshipController(testLogger, fake)
		req := httptest.NewRequest(http.MethodGet, "http://test/friends/requests", nil)
		req = req.WithContext(middleware.SetUserID(req.Context(), "alice"))
		rr := httptest.NewRecorder()

		ctrl.ListIncoming(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var envelope helpers.APIResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
		require.Nil(t, envelope.Error)
		data, ok := envelope.Data.([]any)
		require.True(t, ok)
		assert.Len(t, data, 1)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		ctrl := NewFriendshipController(testLogger, &fakeFriendshipService{})
		req := httptest.NewRequest(http.MethodGet, "http://test/friends/requests", nil)
		rr := httptest.NewRecorder()

		ctrl.ListIncoming(rr, req)
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
