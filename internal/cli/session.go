package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dtroode/certdash/internal/logger"
	"github.com/dtroode/certdash/internal/model"
)

// sessionFile stores the refresh token of the signed-in user between runs.
type sessionFile string

func (f sessionFile) load() (string, error) {
	data, err := os.ReadFile(string(f))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (f sessionFile) save(refreshToken string) error {
	if err := os.MkdirAll(filepath.Dir(string(f)), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(string(f), []byte(refreshToken), 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

func (f sessionFile) clear() error {
	if err := os.Remove(string(f)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// track returns a session change handler keeping the file in sync with the
// identity provider. Refresh tokens rotate on every restore.
func (f sessionFile) track(log *logger.Logger) func(model.SessionChange) {
	return func(change model.SessionChange) {
		var err error
		switch {
		case change.Event == model.SessionSignedOut || change.Session == nil:
			err = f.clear()
		default:
			err = f.save(change.Session.RefreshToken)
		}
		if err != nil {
			log.Error("CLI: failed to update session file", "event", string(change.Event), "error", err.Error())
		}
	}
}

// resume restores the saved session.
func (f sessionFile) resume(ctx context.Context, auth restorer) error {
	token, err := f.load()
	if err != nil {
		return err
	}
	if token == "" {
		return errNoSession
	}

	if _, err := auth.Restore(ctx, token); err != nil {
		var aerr *model.AuthError
		if errors.As(err, &aerr) {
			if clearErr := f.clear(); clearErr != nil {
				return clearErr
			}
			return fmt.Errorf("%w (%v)", errNoSession, err)
		}
		return err
	}
	return nil
}
