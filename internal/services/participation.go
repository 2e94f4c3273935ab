package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cheerup/internal/domain"
)

type participationService struct {
	eventRepo domain.EventRepository
	joinRepo  domain.EventJoinRepository
	notifier  domain.Notifier
}

// NewParticipationService creates a ParticipationService with the given
// repositories and notifier.
func NewParticipationService(
	eventRepo domain.EventRepository,
	joinRepo domain.EventJoinRepository,
	notifier domain.Notifier,
) domain.ParticipationService {
	return &participationService{
		eventRepo: eventRepo,
		joinRepo:  joinRepo,
		notifier:  notifier,
	}
}

func (s *participationService) ToggleJoin(ctx context.Context, eventID, userID string) (*domain.EventJoin, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !event.IsActive {
		return nil, domain.ErrEventUnavailable
	}
	if event.CreatorID == userID {
		return nil, domain.ErrSelfJoinForbidden
	}

	join, err := s.joinRepo.GetByEventAndUser(ctx, eventID, userID)
	if errors.Is(err, domain.ErrNotFound) {
		// First toggle always enters the pending queue; capacity is
		// enforced at approval time, not at request time.
		join = domain.NewEventJoin(eventID, userID, time.Now())
		err = s.joinRepo.Create(ctx, join)
		if err == nil {
			return join, nil
		}
		if !errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("create join request: %w", err)
		}
		// A concurrent request inserted the row first; toggle it instead.
		join, err = s.joinRepo.GetByEventAndUser(ctx, eventID, userID)
		if err != nil {
			return nil, fmt.Errorf("get join request: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("get join request: %w", err)
	}

	next, ok := join.Status.Toggle()
	if !ok {
		return join, nil
	}
	updated, _, err := s.joinRepo.Transition(ctx, eventID, userID, join.Status, next)
	if err != nil {
		return nil, fmt.Errorf("toggle join request: %w", err)
	}
	return updated, nil
}

func (s *participationService) Approve(ctx context.Context, eventID, callerID, targetUserID string) (*domain.ApprovalResult, error) {
	event, err := s.creatorEvent(ctx, eventID, callerID)
	if err != nil {
		return nil, err
	}

	result, err := s.joinRepo.TryApprove(ctx, eventID, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("approve join request: %w", err)
	}
	if result.Outcome == domain.OutcomeApproved {
		s.notifier.Notify(ctx, targetUserID,
			fmt.Sprintf("Your request to join %q was approved.", event.Name))
	}
	return result, nil
}

func (s *participationService) Reject(ctx context.Context, eventID, callerID, targetUserID string) (*domain.EventJoin, error) {
	event, err := s.creatorEvent(ctx, eventID, callerID)
	if err != nil {
		return nil, err
	}

	join, changed, err := s.joinRepo.Transition(ctx, eventID, targetUserID, domain.StatusPending, domain.StatusRejected)
	if err != nil {
		return nil, fmt.Errorf("reject join request: %w", err)
	}
	if changed {
		s.notifier.Notify(ctx, targetUserID,
			fmt.Sprintf("Your request to join %q was rejected.", event.Name))
	}
	return join, nil
}

func (s *participationService) Remove(ctx context.Context, eventID, callerID, targetUserID string) (*domain.EventJoin, error) {
	event, err := s.creatorEvent(ctx, eventID, callerID)
	if err != nil {
		return nil, err
	}

	join, changed, err := s.joinRepo.Transition(ctx, eventID, targetUserID, domain.StatusApproved, domain.StatusRemoved)
	if err != nil {
		return nil, fmt.Errorf("remove participant: %w", err)
	}
	if changed {
		s.notifier.Notify(ctx, targetUserID,
			fmt.Sprintf("You were removed from %q.", event.Name))
	}
	return join, nil
}

// creatorEvent loads the event and enforces that it is active and that the
// caller created it. Every creator-only transition goes through this gate
// before any row is touched.
func (s *participationService) creatorEvent(ctx context.Context, eventID, callerID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !event.IsActive {
		return nil, domain.ErrEventUnavailable
	}
	if event.CreatorID != callerID {
		return nil, domain.ErrForbidden
	}
	return event, nil
}
