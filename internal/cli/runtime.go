package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/certdash/internal/app"
	"github.com/dtroode/certdash/internal/config"
	"github.com/dtroode/certdash/internal/localstore"
	"github.com/dtroode/certdash/internal/logger"
	"github.com/dtroode/certdash/internal/model"
	"github.com/dtroode/certdash/internal/store"
)

var errNoSession = errors.New("not signed in, run 'certdash signin' first")

// withApp builds the application for one command. With resume set the saved
// session is restored first and its absence is an error. The session file
// follows every session change made while the command runs.
func withApp(cmd *cobra.Command, resume bool, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()

	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}

	tokens := sessionFile(cfg.SessionFile)
	unsubscribe := a.Auth.OnSessionChange(tokens.track(log))
	defer func() {
		if err := a.Close(); err != nil {
			log.Error("CLI: failed to close application", "error", err.Error())
		}
		unsubscribe()
	}()

	if resume {
		if err := tokens.resume(ctx, a.Auth); err != nil {
			return err
		}
	}

	return fn(ctx, a)
}

// withLocal opens only the on-device document store.
func withLocal(fn func(docs *store.LocalDocuments) error) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)

	slot, err := localstore.Open(cfg.Local.StorePath, cfg.Local.SlotName)
	if err != nil {
		return fmt.Errorf("failed to open local store: %w", err)
	}
	defer func() {
		if err := slot.Close(); err != nil {
			log.Error("CLI: failed to close local store", "error", err.Error())
		}
	}()

	return fn(store.NewLocalDocuments(slot, log))
}

// stateError turns the error recorded by a store into a command error.
func stateError(msg string) error {
	if msg == "" {
		return nil
	}
	return errors.New(msg)
}

// restorer is the part of the identity provider that resumes saved sessions.
type restorer interface {
	Restore(ctx context.Context, refreshToken string) (model.Session, error)
}
