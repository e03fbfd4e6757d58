package model

import (
	"context"
	"time"
)

// Session is the signed-in state held by the identity provider.
type Session struct {
	User         User
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// SessionEvent names a session transition.
type SessionEvent string

const (
	SessionSignedIn    SessionEvent = "SIGNED_IN"
	SessionSignedOut   SessionEvent = "SIGNED_OUT"
	SessionUserUpdated SessionEvent = "USER_UPDATED"
)

// SessionChange is delivered to OnSessionChange subscribers. Session is nil after sign-out.
type SessionChange struct {
	Event   SessionEvent
	Session *Session
}

// SessionProvider exposes the current user to every remote-backed store.
type SessionProvider interface {
	CurrentUser(ctx context.Context) (User, error)
}

// Identity is the authentication collaborator.
type Identity interface {
	SessionProvider
	GetSession() *Session
	GetUser(ctx context.Context) (User, error)
	OnSessionChange(fn func(SessionChange)) (unsubscribe func())
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignUp(ctx context.Context, email, password, fullName string) (Session, error)
	SignOut(ctx context.Context) error
	UpdateUser(ctx context.Context, update UserUpdate) (User, error)
}
