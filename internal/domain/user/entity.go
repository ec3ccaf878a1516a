package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	id           uuid.UUID
	username     string
	email        Email
	passwordHash string
	profileImage *string
	createdAt    time.Time
	updatedAt    time.Time
}

func NewUser(username string, email Email, passwordHash string, now time.Time) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > maxUsernameLength {
		return nil, ErrInvalidUsername
	}
	if passwordHash == "" {
		return nil, ErrMissingPasswordHash
	}

	return &User{
		id:           uuid.New(),
		username:     username,
		email:        email,
		passwordHash: passwordHash,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructUser(id uuid.UUID, username string, email Email, passwordHash string, profileImage *string, createdAt, updatedAt time.Time) *User {
	return &User{
		id:           id,
		username:     username,
		email:        email,
		passwordHash: passwordHash,
		profileImage: profileImage,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (u *User) ID() uuid.UUID         { return u.id }
func (u *User) Username() string      { return u.username }
func (u *User) Email() Email          { return u.email }
func (u *User) PasswordHash() string  { return u.passwordHash }
func (u *User) ProfileImage() *string { return u.profileImage }
func (u *User) CreatedAt() time.Time  { return u.createdAt }
func (u *User) UpdatedAt() time.Time  { return u.updatedAt }

// UpdateProfile applies only the values that are set.
func (u *User) UpdateProfile(username *string, email *Email, profileImage *string, now time.Time) error {
	if username != nil {
		trimmed := strings.TrimSpace(*username)
		if trimmed == "" || len(trimmed) > maxUsernameLength {
			return ErrInvalidUsername
		}
		u.username = trimmed
	}
	if email != nil {
		u.email = *email
	}
	if profileImage != nil {
		u.profileImage = profileImage
	}
	u.updatedAt = now
	return nil
}
