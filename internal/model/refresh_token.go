package model

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/google/uuid"
)

// RefreshTokenStore persists the sessions the identity service hands out.
type RefreshTokenStore interface {
	Create(ctx context.Context, token RefreshToken) error
	GetByJTI(ctx context.Context, jti string) (RefreshToken, error)
	RevokeByJTI(ctx context.Context, jti string) error
	RevokeAllByUser(ctx context.Context, userID uuid.UUID) error
}

// RefreshToken is one resumable session of a user. The token itself is never
// stored, only its hash.
type RefreshToken struct {
	ID        uuid.UUID
	JTI       string
	UserID    uuid.UUID
	TokenHash []byte
	IssuedAt  time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
	// RotatedFromJTI names the session this one replaced on refresh.
	RotatedFromJTI *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Verify reports whether the session can still be resumed at now with a
// token hashing to presented.
func (rt RefreshToken) Verify(presented []byte, now time.Time) error {
	switch {
	case rt.RevokedAt != nil:
		return ErrTokenRevoked
	case now.After(rt.ExpiresAt):
		return ErrTokenExpired
	case subtle.ConstantTimeCompare(rt.TokenHash, presented) != 1:
		return ErrTokenMismatch
	}
	return nil
}
