package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cheerup/internal/domain"
)

type eventService struct {
	eventRepo domain.EventRepository
	joinRepo  domain.EventJoinRepository
}

// NewEventService creates an EventService with the given repositories.
func NewEventService(eventRepo domain.EventRepository, joinRepo domain.EventJoinRepository) domain.EventService {
	return &eventService{
		eventRepo: eventRepo,
		joinRepo:  joinRepo,
	}
}

func (s *eventService) Create(ctx context.Context, creatorID, name, description string, capacity int, start, end time.Time) (*domain.Event, error) {
	now := time.Now()
	if errs := domain.ValidateEvent(name, capacity, start, end, now); errs != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, errs.Error())
	}
	event := domain.NewEvent(name, description, creatorID, capacity, start, end, now)
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetDetail(ctx context.Context, eventID, callerID string) (*domain.EventDetail, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	approved, err := s.joinRepo.ListByEventAndStatus(ctx, eventID, domain.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("list approved joins: %w", err)
	}
	pending, err := s.joinRepo.ListByEventAndStatus(ctx, eventID, domain.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending joins: %w", err)
	}

	detail := &domain.EventDetail{
		Event:         event,
		ApprovedCount: len(approved),
		PendingCount:  len(pending),
		Approved:      approved,
		Pending:       pending,
	}
	if callerID != "" && callerID != event.CreatorID {
		join, err := s.joinRepo.GetByEventAndUser(ctx, eventID, callerID)
		if err == nil {
			detail.CallerStatus = join.Status
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get caller join: %w", err)
		}
	}
	return detail, nil
}

func (s *eventService) ListUpcoming(ctx context.Context) ([]*domain.Event, error) {
	events, err := s.eventRepo.ListUpcoming(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *eventService) Update(ctx context.Context, eventID, callerID string, upd domain.EventUpdate) (*domain.Event, error) {
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

	if upd.Name != nil {
		event.Name = *upd.Name
	}
	if upd.Description != nil {
		event.Description = *upd.Description
	}
	if upd.Capacity != nil {
		event.Capacity = *upd.Capacity
	}
	if upd.StartTime != nil {
		event.StartTime = *upd.StartTime
	}
	if upd.EndTime != nil {
		event.EndTime = *upd.EndTime
	}

	// The accumulator is per call; concurrent updates each get their own.
	errs := domain.ValidationErrors{}
	if event.Name == "" {
		errs["name"] = "event name cannot be empty"
	}
	if event.Capacity < 0 {
		errs["capacity"] = "capacity must be a non-negative number"
	}
	if event.EndTime.Before(event.StartTime) {
		errs["end_time"] = "end time cannot be earlier than start time"
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, errs.Error())
	}

	event.UpdatedAt = time.Now()
	// The repository rechecks the approved count against the new capacity
	// inside the write transaction.
	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrCapacityBelowApproved) {
			return nil, domain.ErrCapacityBelowApproved
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) Deactivate(ctx context.Context, eventID, callerID string) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.CreatorID != callerID {
		return domain.ErrForbidden
	}
	if !event.IsActive {
		return nil
	}
	if err := s.eventRepo.SetActive(ctx, eventID, false); err != nil {
		return fmt.Errorf("deactivate event: %w", err)
	}
	return nil
}
