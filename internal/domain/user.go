package domain

import (
	"context"
	"time"
)

// User represents a registered user.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(email, name, passwordHash, salt string, createdAt time.Time) *User {
	return &User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Salt:         salt,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

// UserProfile is a user's public profile. One row per user, created by an
// explicit NewUserProfile call in the signup flow; profile creation is never
// a hidden side effect of persisting a user.
// swagger:model UserProfile
type UserProfile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserProfile returns an empty profile for the user. ID is set by the
// repository on create.
func NewUserProfile(userID string, createdAt time.Time) *UserProfile {
	return &UserProfile{
		UserID:    userID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

// UserProfileRepository defines the interface for profile storage.
type UserProfileRepository interface {
	Create(ctx context.Context, profile *UserProfile) error
	GetByUserID(ctx context.Context, userID string) (*UserProfile, error)
	UpdateBio(ctx context.Context, userID, bio string) error
}

// AuthService handles signup and login.
type AuthService interface {
	// SignUp creates the user and, in the same flow, their profile.
	SignUp(ctx context.Context, email, password, name string) (*User, error)
	Login(ctx context.Context, email, password string) (token string, err error)
}

// ProfileView bundles a profile with its user and active created events.
type ProfileView struct {
	Profile       *UserProfile `json:"profile"`
	User          *User        `json:"user"`
	CreatedEvents []*Event     `json:"created_events"`
}

// ProfileService exposes profile pages.
type ProfileService interface {
	View(ctx context.Context, userID string) (*ProfileView, error)
	UpdateBio(ctx context.Context, callerID, bio string) (*UserProfile, error)
}
