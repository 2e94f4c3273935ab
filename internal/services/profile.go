package services

import (
	"context"
	"errors"
	"fmt"

	"cheerup/internal/domain"
)

type profileService struct {
	profileRepo domain.UserProfileRepository
	userRepo    domain.UserRepository
	eventRepo   domain.EventRepository
}

// NewProfileService creates a ProfileService with the given repositories.
func NewProfileService(
	profileRepo domain.UserProfileRepository,
	userRepo domain.UserRepository,
	eventRepo domain.EventRepository,
) domain.ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		eventRepo:   eventRepo,
	}
}

func (s *profileService) View(ctx context.Context, userID string) (*domain.ProfileView, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	events, err := s.eventRepo.ListByCreatorID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list created events: %w", err)
	}
	return &domain.ProfileView{
		Profile:       profile,
		User:          user,
		CreatedEvents: events,
	}, nil
}

func (s *profileService) UpdateBio(ctx context.Context, callerID, bio string) (*domain.UserProfile, error) {
	if err := s.profileRepo.UpdateBio(ctx, callerID, bio); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update bio: %w", err)
	}
	profile, err := s.profileRepo.GetByUserID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}
