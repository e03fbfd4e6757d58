// Package store holds the observable client-side stores of the dashboard.
// Every store owns its state, publishes a copy of it on each transition and
// can be reset to its empty baseline on sign-out.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/dtroode/certdash/internal/logger"
	"github.com/dtroode/certdash/internal/model"
)

// Resetter is implemented by stores cleared on sign-out.
type Resetter interface {
	Reset()
}

// Env is what every remote-backed store needs to reach the remote side.
type Env struct {
	Session model.SessionProvider
	Logger  *logger.Logger
	// Timeout bounds each remote call; zero means no bound.
	Timeout time.Duration
}

// user returns the signed-in user. Any failure is reported as an AuthError.
func (e Env) user(ctx context.Context) (model.User, error) {
	u, err := e.Session.CurrentUser(ctx)
	if err != nil {
		var aerr *model.AuthError
		if errors.As(err, &aerr) {
			return model.User{}, err
		}
		return model.User{}, &model.AuthError{Err: err}
	}
	return u, nil
}

// call derives the context of a single remote call.
func (e Env) call(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.Timeout > 0 {
		return context.WithTimeout(ctx, e.Timeout)
	}
	return context.WithCancel(ctx)
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
