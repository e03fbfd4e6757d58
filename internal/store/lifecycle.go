package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/certdash/internal/logger"
	"github.com/dtroode/certdash/internal/model"
	"github.com/dtroode/certdash/internal/observe"
)

type LifecycleState struct {
	User    *model.User
	Loading bool
}

// Lifecycle follows the identity provider's session and keeps the per-user
// stores scoped to it: they are reset on sign-out and whenever a different
// user signs in. The local document collection is not one of them.
type Lifecycle struct {
	identity model.Identity
	stores   []Resetter
	logger   *logger.Logger

	mu          sync.Mutex
	state       LifecycleState
	unsubscribe func()
	changes     observe.Notifier[LifecycleState]
}

func NewLifecycle(identity model.Identity, logger *logger.Logger, stores ...Resetter) *Lifecycle {
	return &Lifecycle{
		identity: identity,
		stores:   stores,
		logger:   logger,
		state:    LifecycleState{Loading: true},
	}
}

// Start subscribes to session changes and takes the current session as the
// initial state.
func (l *Lifecycle) Start() {
	l.mu.Lock()
	if l.unsubscribe != nil {
		l.mu.Unlock()
		return
	}
	l.unsubscribe = l.identity.OnSessionChange(l.onSessionChange)
	l.mu.Unlock()

	l.apply(l.identity.GetSession())
}

// Close stops following session changes.
func (l *Lifecycle) Close() {
	l.mu.Lock()
	unsubscribe := l.unsubscribe
	l.unsubscribe = nil
	l.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (l *Lifecycle) State() LifecycleState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Lifecycle) Subscribe(fn func(LifecycleState)) func() {
	return l.changes.Subscribe(fn)
}

func (l *Lifecycle) SignIn(ctx context.Context, email, password string) error {
	_, err := l.identity.SignIn(ctx, email, password)
	return err
}

func (l *Lifecycle) SignUp(ctx context.Context, email, password, fullName string) error {
	_, err := l.identity.SignUp(ctx, email, password, fullName)
	return err
}

// SignOut resets every per-user store, then ends the session.
func (l *Lifecycle) SignOut(ctx context.Context) error {
	l.resetStores()
	return l.identity.SignOut(ctx)
}

func (l *Lifecycle) onSessionChange(change model.SessionChange) {
	l.logger.Debug("Lifecycle: session changed", "event", string(change.Event))
	l.apply(change.Session)
}

func (l *Lifecycle) apply(session *model.Session) {
	var user *model.User
	if session != nil {
		u := session.User
		user = &u
	}

	l.mu.Lock()
	previous := uuid.Nil
	if l.state.User != nil {
		previous = l.state.User.ID
	}
	current := uuid.Nil
	if user != nil {
		current = user.ID
	}
	l.state = LifecycleState{User: user, Loading: false}
	st := l.state
	l.mu.Unlock()

	if previous != uuid.Nil && previous != current {
		l.resetStores()
	}

	l.changes.Publish(st)
}

func (l *Lifecycle) resetStores() {
	for _, s := range l.stores {
		s.Reset()
	}
}
