package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/certdash/internal/logger"
	"github.com/dtroode/certdash/internal/model"
	"github.com/dtroode/certdash/internal/observe"
)

const minPasswordLength = 6

var _ model.Identity = (*Auth)(nil)

// Auth is the identity provider. It keeps the single current session in
// memory and notifies subscribers on every transition.
type Auth struct {
	userStore    model.UserStore
	tokenService *TokenService
	logger       *logger.Logger
	now          func() time.Time

	mu      sync.RWMutex
	session *model.Session

	changes observe.Notifier[model.SessionChange]
}

func NewAuth(userStore model.UserStore, tokenService *TokenService, logger *logger.Logger) *Auth {
	return &Auth{
		userStore:    userStore,
		tokenService: tokenService,
		logger:       logger,
		now:          time.Now,
	}
}

// GetSession returns a copy of the current session, or nil when signed out.
func (a *Auth) GetSession() *model.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.session == nil {
		return nil
	}
	s := *a.session
	return &s
}

// CurrentUser returns the signed-in user, rotating the token pair first when
// the access token has expired.
func (a *Auth) CurrentUser(ctx context.Context) (model.User, error) {
	session := a.GetSession()
	if session == nil {
		return model.User{}, &model.AuthError{Err: model.ErrNotAuthenticated}
	}

	if a.now().Before(session.ExpiresAt) {
		return session.User, nil
	}

	a.logger.Debug("Auth service: access token expired, refreshing", "user_id", session.User.ID)

	refreshed, err := a.Restore(ctx, session.RefreshToken)
	if err != nil {
		return model.User{}, err
	}
	return refreshed.User, nil
}

// GetUser re-reads the signed-in user from the user store.
func (a *Auth) GetUser(ctx context.Context) (model.User, error) {
	current, err := a.CurrentUser(ctx)
	if err != nil {
		return model.User{}, err
	}

	user, err := a.userStore.GetByID(ctx, current.ID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, &model.AuthError{Err: model.ErrNotAuthenticated}
		}
		return model.User{}, &model.RemoteError{Op: "get user", Err: err}
	}
	return user, nil
}

// OnSessionChange registers fn for every session transition.
func (a *Auth) OnSessionChange(fn func(model.SessionChange)) func() {
	return a.changes.Subscribe(fn)
}

func (a *Auth) SignUp(ctx context.Context, email, password, fullName string) (model.Session, error) {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return model.Session{}, err
	}
	if err := validatePassword(password); err != nil {
		return model.Session{}, err
	}

	a.logger.Debug("Auth service: starting user registration", "email", email)

	_, err := a.userStore.GetByEmail(ctx, email)
	if err == nil {
		a.logger.Info("Auth service: user already exists", "email", email)
		return model.Session{}, model.NewValidationError("email", "already registered")
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.Session{}, &model.RemoteError{Op: "get user by email", Err: err}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: hash,
	})
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			return model.Session{}, err
		}
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.Session{}, &model.RemoteError{Op: "create user", Err: err}
	}

	a.logger.Info("Auth service: user registered", "user_id", user.ID)
	return a.startSession(ctx, user)
}

func (a *Auth) SignIn(ctx context.Context, email, password string) (model.Session, error) {
	email = strings.TrimSpace(email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Session{}, &model.AuthError{Err: model.ErrInvalidCredentials}
		}
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.Session{}, &model.RemoteError{Op: "get user by email", Err: err}
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		a.logger.Info("Auth service: wrong password", "user_id", user.ID)
		return model.Session{}, &model.AuthError{Err: model.ErrInvalidCredentials}
	}

	return a.startSession(ctx, user)
}

// Restore resumes a session from a refresh token saved by a previous run.
func (a *Auth) Restore(ctx context.Context, refreshToken string) (model.Session, error) {
	pair, err := a.tokenService.Refresh(ctx, refreshToken)
	if err != nil {
		a.logger.Info("Auth service: failed to restore session", "error", err.Error())
		a.clearSession()
		return model.Session{}, &model.AuthError{Err: err}
	}

	user, err := a.userStore.GetByID(ctx, pair.UserID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Session{}, &model.AuthError{Err: model.ErrNotAuthenticated}
		}
		return model.Session{}, &model.RemoteError{Op: "get user", Err: err}
	}

	return a.setSession(user, pair, model.SessionSignedIn), nil
}

// SignOut revokes the refresh token and clears the session. Revocation
// failures are logged; the local session is cleared regardless.
func (a *Auth) SignOut(ctx context.Context) error {
	session := a.GetSession()
	if session == nil {
		return nil
	}

	if err := a.tokenService.RevokeByToken(ctx, session.RefreshToken); err != nil {
		a.logger.Error("Auth service: failed to revoke refresh token",
			"user_id", session.User.ID,
			"error", err.Error())
	}

	a.clearSession()
	a.logger.Info("Auth service: user signed out", "user_id", session.User.ID)
	return nil
}

// UpdateUser changes the signed-in user's email, name or password.
func (a *Auth) UpdateUser(ctx context.Context, update model.UserUpdate) (model.User, error) {
	if update.Email != nil {
		if err := validateEmail(strings.TrimSpace(*update.Email)); err != nil {
			return model.User{}, err
		}
	}
	if update.Password != nil {
		if update.PasswordConfirm == nil || *update.PasswordConfirm != *update.Password {
			return model.User{}, model.NewValidationError("password", "passwords do not match")
		}
		if err := validatePassword(*update.Password); err != nil {
			return model.User{}, err
		}
	}

	user, err := a.GetUser(ctx)
	if err != nil {
		return model.User{}, err
	}

	if update.Email != nil {
		user.Email = strings.TrimSpace(*update.Email)
	}
	if update.FullName != nil {
		user.FullName = strings.TrimSpace(*update.FullName)
	}
	if update.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcrypt.DefaultCost)
		if err != nil {
			return model.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	saved, err := a.userStore.Update(ctx, user)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			return model.User{}, err
		}
		return model.User{}, &model.RemoteError{Op: "update user", Err: err}
	}

	a.mu.Lock()
	if a.session == nil || a.session.User.ID != saved.ID {
		a.mu.Unlock()
		return saved, nil
	}
	a.session.User = saved
	s := *a.session
	a.mu.Unlock()

	a.changes.Publish(model.SessionChange{Event: model.SessionUserUpdated, Session: &s})
	return saved, nil
}

func (a *Auth) startSession(ctx context.Context, user model.User) (model.Session, error) {
	pair, err := a.tokenService.Issue(ctx, user.ID)
	if err != nil {
		a.logger.Error("Auth service: failed to issue tokens",
			"user_id", user.ID,
			"error", err.Error())
		return model.Session{}, &model.RemoteError{Op: "issue session", Err: err}
	}

	return a.setSession(user, pair, model.SessionSignedIn), nil
}

func (a *Auth) setSession(user model.User, pair model.TokenPair, event model.SessionEvent) model.Session {
	s := model.Session{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
	}

	a.mu.Lock()
	stored := s
	a.session = &stored
	a.mu.Unlock()

	published := s
	a.changes.Publish(model.SessionChange{Event: event, Session: &published})
	return s
}

func (a *Auth) clearSession() {
	a.mu.Lock()
	had := a.session != nil
	a.session = nil
	a.mu.Unlock()

	if had {
		a.changes.Publish(model.SessionChange{Event: model.SessionSignedOut})
	}
}

func validateEmail(email string) error {
	if email == "" {
		return model.NewValidationError("email", "required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return model.NewValidationError("email", "malformed address")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return model.NewValidationError("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	return nil
}
