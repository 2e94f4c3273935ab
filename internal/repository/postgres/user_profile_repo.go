package postgres

import (
	"context"
	"database/sql"
	"errors"

	"cheerup/internal/domain"
)

type userProfileRepository struct {
	DB *sql.DB
}

func NewUserProfileRepository(db *sql.DB) domain.UserProfileRepository {
	return &userProfileRepository{DB: db}
}

func (r *userProfileRepository) Create(ctx context.Context, profile *domain.UserProfile) error {
	query := `
		INSERT INTO user_profiles (user_id, bio, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		profile.UserID, profile.Bio, profile.CreatedAt, profile.UpdatedAt).Scan(&profile.ID)
}

func (r *userProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	query := `
		SELECT id, user_id, bio, created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`
	profile := &domain.UserProfile{}
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&profile.ID, &profile.UserID, &profile.Bio, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (r *userProfileRepository) UpdateBio(ctx context.Context, userID, bio string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE user_profiles SET bio = $2, updated_at = NOW() WHERE user_id = $1`, userID, bio)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
