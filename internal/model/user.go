package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	Update(ctx context.Context, user User) (User, error)
}

// User represents a registered user with a profile and password hash.
type User struct {
	ID           uuid.UUID
	Email        string
	FullName     string
	PasswordHash []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserUpdate is a partial update of the current user. Nil fields are left untouched.
type UserUpdate struct {
	Email           *string
	FullName        *string
	Password        *string
	PasswordConfirm *string
}
