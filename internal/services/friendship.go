package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cheerup/internal/domain"
)

type friendshipService struct {
	friendRepo domain.FriendRequestRepository
	userRepo   domain.UserRepository
	notifier   domain.Notifier
}

// NewFriendshipService creates a FriendshipService with the given
// repositories and notifier.
func NewFriendshipService(
	friendRepo domain.FriendRequestRepository,
	userRepo domain.UserRepository,
	notifier domain.Notifier,
) domain.FriendshipService {
	return &friendshipService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
		notifier:   notifier,
	}
}

func (s *friendshipService) ToggleRequest(ctx context.Context, callerID, otherID string) (*domain.FriendRequest, error) {
	if callerID == otherID {
		return nil, domain.ErrSelfFriendForbidden
	}
	if _, err := s.userRepo.GetByID(ctx, otherID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	req, err := s.friendRepo.GetByUsers(ctx, callerID, otherID)
	if errors.Is(err, domain.ErrNotFound) {
		req = domain.NewFriendRequest(callerID, otherID, time.Now())
		if err := s.friendRepo.Create(ctx, req); err != nil {
			return nil, fmt.Errorf("create friend request: %w", err)
		}
		return req, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get friend request: %w", err)
	}

	next, ok := req.Status.Toggle()
	if !ok {
		return req, nil
	}
	// Toggling only touches the caller's own directed row; established
	// (approved) friendships end through Remove, which mirrors both rows.
	if err := s.friendRepo.UpdateStatus(ctx, req.ID, next); err != nil {
		return nil, fmt.Errorf("toggle friend request: %w", err)
	}
	req.Status = next
	return req, nil
}

func (s *friendshipService) Approve(ctx context.Context, callerID, requesterID string) (*domain.FriendRequest, error) {
	if callerID == requesterID {
		return nil, domain.ErrSelfFriendForbidden
	}
	req, changed, err := s.friendRepo.SyncPair(ctx, requesterID, callerID, domain.StatusPending, domain.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("approve friend request: %w", err)
	}
	if changed {
		s.notifier.Notify(ctx, requesterID, s.messageFrom(ctx, callerID, "accepted your friend request."))
	}
	return req, nil
}

func (s *friendshipService) Reject(ctx context.Context, callerID, requesterID string) (*domain.FriendRequest, error) {
	if callerID == requesterID {
		return nil, domain.ErrSelfFriendForbidden
	}
	req, changed, err := s.friendRepo.SyncPair(ctx, requesterID, callerID, domain.StatusPending, domain.StatusRejected)
	if err != nil {
		return nil, fmt.Errorf("reject friend request: %w", err)
	}
	if changed {
		s.notifier.Notify(ctx, requesterID, s.messageFrom(ctx, callerID, "declined your friend request."))
	}
	return req, nil
}

func (s *friendshipService) Remove(ctx context.Context, callerID, otherID string) (*domain.FriendRequest, error) {
	if callerID == otherID {
		return nil, domain.ErrSelfFriendForbidden
	}
	// Either side of an approved friendship holds a directed approved row
	// towards the other, so acting on the other→caller row works from both
	// ends and mirrors removed onto both.
	req, changed, err := s.friendRepo.SyncPair(ctx, otherID, callerID, domain.StatusApproved, domain.StatusRemoved)
	if err != nil {
		return nil, fmt.Errorf("remove friend: %w", err)
	}
	if changed {
		s.notifier.Notify(ctx, otherID, s.messageFrom(ctx, callerID, "removed you from their friends."))
	}
	return req, nil
}

func (s *friendshipService) ListIncomingPending(ctx context.Context, callerID string) ([]*domain.FriendRequest, error) {
	reqs, err := s.friendRepo.ListByReceiverAndStatus(ctx, callerID, domain.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending friend requests: %w", err)
	}
	return reqs, nil
}

// messageFrom prefixes the message with the acting user's name when it can
// be resolved; the notification text degrades gracefully when it cannot.
func (s *friendshipService) messageFrom(ctx context.Context, userID, suffix string) string {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "Someone " + suffix
	}
	return user.Name + " " + suffix
}
